package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/testutil"
	"github.com/korey-h/api-yamdb/internal/usecase"
	"github.com/korey-h/api-yamdb/pkg/throttle"
	"github.com/korey-h/api-yamdb/pkg/token"
)

type testServer struct {
	t       *testing.T
	store   *testutil.Store
	mailbox *testutil.Mailbox
	tokens  *token.Manager
	router  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := testutil.NewStore()
	mailbox := &testutil.Mailbox{}
	tokens := testutil.NewTokens(t)

	deps := usecase.Dependencies{
		Tokens:   tokens,
		Mailer:   mailbox,
		Throttle: throttle.NewMemoryLimiter(),
	}
	app := Wiring(store.Repository(), deps, testutil.Config(), zap.NewNop())

	return &testServer{t: t, store: store, mailbox: mailbox, tokens: tokens, router: app.Router}
}

// tokenFor issues an access token for a seeded user.
func (s *testServer) tokenFor(u *entity.User) string {
	s.t.Helper()
	raw, err := s.tokens.IssueAccess(u.ID, string(u.Role))
	require.NoError(s.t, err)
	return raw
}

// do sends a JSON request and decodes the JSON response body, if any.
func (s *testServer) do(method, path, bearer string, body any) (int, map[string]any) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", body)
	return data
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestSignupAndTokenFlow(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/v1/auth/email/", "", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, code)
	if diff := cmp.Diff(map[string]any{"detail": "email was sent"}, body); diff != "" {
		t.Errorf("signup response mismatch (-want +got):\n%s", diff)
	}

	confirmation := s.mailbox.LastCode(t, "alice@example.com")

	code, body = s.do(http.MethodPost, "/v1/token/", "", map[string]string{
		"email":             "alice@example.com",
		"confirmation_code": confirmation,
	})
	require.Equal(t, http.StatusOK, code)
	access, ok := body["token"].(string)
	require.True(t, ok)

	code, body = s.do(http.MethodGet, "/v1/users/me/", access, nil)
	require.Equal(t, http.StatusOK, code)
	want := map[string]any{
		"username":   "alice",
		"email":      "alice@example.com",
		"first_name": "",
		"last_name":  "",
		"bio":        nil,
		"role":       "user",
	}
	if diff := cmp.Diff(want, dataOf(t, body)); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	code, body = s.do(http.MethodPost, "/v1/token/", "", map[string]string{
		"email":             "alice@example.com",
		"confirmation_code": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Confirmation code is wrong or expired.", body["message"])

	code, _ = s.do(http.MethodPost, "/v1/token/", "", map[string]string{
		"email":             "nobody@example.com",
		"confirmation_code": confirmation,
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSignupValidationError(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/v1/auth/email", "", map[string]string{"email": "broken"})
	assert.Equal(t, http.StatusBadRequest, code)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "email")
}

func TestAuthenticationErrors(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/v1/titles", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// a token for a deleted account stops working
	gone := s.store.SeedUser(t, "gone", entity.RoleUser)
	raw := s.tokenFor(gone)
	require.NoError(t, s.store.Repository().User.Delete(context.Background(), gone.ID))
	code, _ = s.do(http.MethodGet, "/v1/users/me", raw, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)

	admin := s.tokenFor(s.store.SeedUser(t, "root", entity.RoleAdmin))
	moderator := s.tokenFor(s.store.SeedUser(t, "mod", entity.RoleModerator))

	category := map[string]string{"name": "Films", "slug": "films"}

	code, _ := s.do(http.MethodPost, "/v1/categories/", "", category)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/v1/categories/", moderator, category)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/v1/categories/", admin, category)
	assert.Equal(t, http.StatusCreated, code)

	code, body := s.do(http.MethodGet, "/v1/categories/?search=fil", "", nil)
	require.Equal(t, http.StatusOK, code)
	list := dataOf(t, body)
	assert.Len(t, list["data"], 1)

	code, _ = s.do(http.MethodGet, "/v1/users/", moderator, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(http.MethodGet, "/v1/users/mod/", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "moderator", dataOf(t, body)["role"])

	code, _ = s.do(http.MethodDelete, "/v1/categories/films/", admin, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = s.do(http.MethodDelete, "/v1/categories/films/", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSelfProfileCannotChangeRole(t *testing.T) {
	s := newTestServer(t)

	raw := s.tokenFor(s.store.SeedUser(t, "alice", entity.RoleUser))

	code, body := s.do(http.MethodPatch, "/v1/users/me/", raw, map[string]string{
		"role":       "admin",
		"first_name": "Alice",
	})
	require.Equal(t, http.StatusOK, code)
	data := dataOf(t, body)
	assert.Equal(t, "user", data["role"])
	assert.Equal(t, "Alice", data["first_name"])
}

func TestTitleReviewCommentFlow(t *testing.T) {
	s := newTestServer(t)

	admin := s.tokenFor(s.store.SeedUser(t, "root", entity.RoleAdmin))
	alice := s.tokenFor(s.store.SeedUser(t, "alice", entity.RoleUser))
	bob := s.tokenFor(s.store.SeedUser(t, "bob", entity.RoleUser))
	s.store.SeedGenre(t, "Drama", "drama")

	code, body := s.do(http.MethodPost, "/v1/titles/", admin, map[string]any{
		"name":  "Solaris",
		"year":  1972,
		"genre": []string{"drama"},
	})
	require.Equal(t, http.StatusCreated, code)
	titleID := int64(dataOf(t, body)["id"].(float64))
	titlePath := "/v1/titles/" + itoa(titleID)

	code, _ = s.do(http.MethodPost, titlePath+"/reviews/", "", map[string]any{"text": "x", "score": 5})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = s.do(http.MethodPost, titlePath+"/reviews/", alice, map[string]any{"text": "great", "score": 8})
	require.Equal(t, http.StatusCreated, code)
	review := dataOf(t, body)
	assert.Equal(t, "alice", review["author"])
	reviewPath := titlePath + "/reviews/" + itoa(int64(review["id"].(float64)))

	code, body = s.do(http.MethodPost, titlePath+"/reviews/", alice, map[string]any{"text": "again", "score": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["errors"], "non_field_errors")

	code, body = s.do(http.MethodGet, titlePath, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 8.0, dataOf(t, body)["rating"], 1e-9)

	code, _ = s.do(http.MethodPatch, reviewPath, bob, map[string]any{"score": 1})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(http.MethodPost, reviewPath+"/comments/", bob, map[string]string{"text": "disagree"})
	require.Equal(t, http.StatusCreated, code)
	commentPath := reviewPath + "/comments/" + itoa(int64(dataOf(t, body)["id"].(float64)))

	code, body = s.do(http.MethodGet, reviewPath+"/comments/", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, dataOf(t, body)["data"], 1)

	code, _ = s.do(http.MethodDelete, commentPath, alice, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodDelete, commentPath, bob, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = s.do(http.MethodDelete, reviewPath, admin, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, body = s.do(http.MethodGet, titlePath, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, dataOf(t, body)["rating"])
}

func TestMalformedPathIDs(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/v1/titles/abc", "/v1/titles/0/reviews", "/v1/titles/1/reviews/x/comments"} {
		code, _ := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, code, path)
	}

	code, _ := s.do(http.MethodGet, "/v1/titles?year=soon", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
