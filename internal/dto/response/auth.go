package response

type DetailResponse struct {
	Detail string `json:"detail"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
