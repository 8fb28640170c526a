package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/screenwise/screenwise/internal/common"
	"github.com/screenwise/screenwise/internal/server/auth"
	"github.com/screenwise/screenwise/internal/server/config"
	"github.com/screenwise/screenwise/internal/server/models"
	"github.com/screenwise/screenwise/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthService returns canned results so handler tests exercise only the
// HTTP mapping, not the business rules.
type stubAuthService struct {
	pair *services.TokenPair
	user *models.PublicUser
	err  error

	lastRegister services.RegisterParams
	lastEmail    string
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*services.TokenPair, *models.PublicUser, error) {
	s.lastEmail = email
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.pair, s.user, nil
}

func (s *stubAuthService) Register(ctx context.Context, params services.RegisterParams) (*models.PublicUser, *services.TokenPair, error) {
	s.lastRegister = params
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.user, s.pair, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pair, nil
}

func (s *stubAuthService) InitiatePasswordReset(ctx context.Context, email string) error {
	s.lastEmail = email
	return s.err
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.err
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return nil, common.ErrInternal
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.user, nil
}

func (r *stubUserRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	return common.ErrNotFound
}

func newTestServer(t *testing.T, svc *stubAuthService, repo *stubUserRepo) (*Server, *auth.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	codec := testCodec(t)
	return NewServer(cfg, discardLogger(), svc, repo, codec, nil), codec
}

func postJSON(h http.Handler, path string, body any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	svc := &stubAuthService{
		pair: &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		user: &models.PublicUser{ID: "u1", Email: "a@b.com", UserType: models.UserTypeIndependent, Active: true},
	}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/login", gin.H{"email": "a@b.com", "password": "secret1"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		User         models.PublicUser `json:"user"`
		AccessToken  string            `json:"access_token"`
		RefreshToken string            `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "acc", resp.AccessToken)
	assert.Equal(t, "ref", resp.RefreshToken)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "a@b.com", svc.lastEmail)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: common.ErrInvalidCredentials}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/login", gin.H{"email": "a@b.com", "password": "secret1"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
}

func TestLogin_ValidationFailure(t *testing.T) {
	srv, _ := newTestServer(t, &stubAuthService{}, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/login", gin.H{"email": "not-an-email", "password": "x"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Fields, "Email")
	assert.Contains(t, resp.Fields, "Password")
}

func TestRegister_Created(t *testing.T) {
	svc := &stubAuthService{
		pair: &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		user: &models.PublicUser{ID: "u1", Username: "alice", UserType: models.UserTypeStudent},
	}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/register", gin.H{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "secret1",
		"full_name": "Alice Silva",
		"user_type": models.UserTypeStudent,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", svc.lastRegister.Username)
	assert.Equal(t, models.UserTypeStudent, svc.lastRegister.UserType)
}

func TestRegister_Duplicate(t *testing.T) {
	svc := &stubAuthService{err: common.ErrAlreadyExists}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/register", gin.H{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "secret1",
		"full_name": "Alice Silva",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_RejectsUnknownUserType(t *testing.T) {
	srv, _ := newTestServer(t, &stubAuthService{}, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/register", gin.H{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "secret1",
		"full_name": "Alice Silva",
		"user_type": "admin",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshToken_Success(t *testing.T) {
	svc := &stubAuthService{pair: &services.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/refresh-token", gin.H{"refresh_token": "some-token"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"acc2","refresh_token":"ref2"}`, w.Body.String())
}

func TestRefreshToken_Invalid(t *testing.T) {
	svc := &stubAuthService{err: common.ErrInvalidRefreshToken}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/refresh-token", gin.H{"refresh_token": "bad"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired refresh token")
}

func TestForgotPassword_UniformResponse(t *testing.T) {
	known := &stubAuthService{}
	unknown := &stubAuthService{} // service already hides unknown emails

	srvKnown, _ := newTestServer(t, known, &stubUserRepo{})
	srvUnknown, _ := newTestServer(t, unknown, &stubUserRepo{})

	w1 := postJSON(srvKnown.Handler(), "/auth/forgot-password", gin.H{"email": "known@example.com"})
	w2 := postJSON(srvUnknown.Handler(), "/auth/forgot-password", gin.H{"email": "unknown@example.com"})

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, w1.Body.String(), w2.Body.String())
}

func TestForgotPassword_DeliveryFailure(t *testing.T) {
	svc := &stubAuthService{err: common.ErrInternal}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/forgot-password", gin.H{"email": "a@b.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResetPassword_Success(t *testing.T) {
	srv, _ := newTestServer(t, &stubAuthService{}, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/reset-password", gin.H{
		"token":        "reset-token",
		"new_password": "newsecret",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "password updated")
}

func TestResetPassword_InvalidToken(t *testing.T) {
	svc := &stubAuthService{err: common.ErrInvalidResetToken}
	srv, _ := newTestServer(t, svc, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/reset-password", gin.H{
		"token":        "stale",
		"new_password": "newsecret",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired reset token")
}

func TestResetPassword_ShortPassword(t *testing.T) {
	srv, _ := newTestServer(t, &stubAuthService{}, &stubUserRepo{})

	w := postJSON(srv.Handler(), "/auth/reset-password", gin.H{
		"token":        "reset-token",
		"new_password": "abc",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash-must-not-leak",
		UserType:     models.UserTypeIndependent,
		Active:       true,
	}}
	srv, codec := newTestServer(t, &stubAuthService{}, repo)

	tok, err := codec.Issue(auth.ClassAccess, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
		UserType:         models.UserTypeIndependent,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "hash-must-not-leak")
}

func TestMe_WithoutToken(t *testing.T) {
	srv, _ := newTestServer(t, &stubAuthService{}, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_UserDeleted(t *testing.T) {
	repo := &stubUserRepo{err: common.ErrNotFound}
	srv, codec := newTestServer(t, &stubAuthService{}, repo)

	tok, err := codec.Issue(auth.ClassAccess, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "gone"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &stubAuthService{}, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
}
