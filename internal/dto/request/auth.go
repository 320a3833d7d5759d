package request

type SignupRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type TokenRequest struct {
	Email            string `json:"email" validate:"required,email,max=254"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}
