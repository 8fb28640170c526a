// Package services contains server-side business logic. This file implements
// AuthService, which handles credential verification, token issuance and
// rotation, registration, and the password-reset flow.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/screenwise/screenwise/internal/common"
	"github.com/screenwise/screenwise/internal/logging"
	"github.com/screenwise/screenwise/internal/server/auth"
	"github.com/screenwise/screenwise/internal/server/mail"
	"github.com/screenwise/screenwise/internal/server/models"
	"github.com/screenwise/screenwise/internal/server/password"
	"github.com/screenwise/screenwise/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams carries the fields accepted at registration. The plaintext
// password is hashed before anything is written to the store.
type RegisterParams struct {
	Username      string
	Email         string
	Password      string
	FullName      string
	UserType      string
	InstitutionID *string
}

// AuthService provides the authentication lifecycle:
// - Authenticate: verify credentials and mint tokens
// - Register: create a user, then authenticate it
// - Refresh: rotate a refresh token into a new pair
// - InitiatePasswordReset / ResetPassword: the forgot-password flow
//
// The service is stateless per call; tokens are never persisted and there is
// no revocation list. Deactivating a user takes effect at refresh time, while
// already-issued access tokens stay honored until their own expiry.
type AuthService struct {
	repo   users.Repository
	codec  *auth.Codec
	hasher *password.Hasher
	sender mail.Sender
	logger logging.Logger
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(repo users.Repository, codec *auth.Codec, hasher *password.Hasher, sender mail.Sender, logger logging.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		codec:  codec,
		hasher: hasher,
		sender: sender,
		logger: logger.With("module", "auth_service"),
	}
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		UserType:         user.UserType,
	}
	if user.InstitutionID != nil {
		claims.InstitutionID = *user.InstitutionID
	}

	accessToken, err := s.codec.Issue(auth.ClassAccess, claims)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refreshToken, err := s.codec.Issue(auth.ClassRefresh, claims)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Authenticate verifies email and password and, on success, returns a token
// pair plus the public projection of the user. Unknown email, wrong password
// and deactivated account all return common.ErrInvalidCredentials; the
// fine-grained cause is only logged.
func (s *AuthService) Authenticate(ctx context.Context, email string, plainPassword string) (*TokenPair, *models.PublicUser, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "login attempt for unknown email", "email", email)
			return nil, nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "credential store lookup failed", "error", err.Error())
		return nil, nil, common.ErrInternal
	}

	if !user.Active {
		s.logger.Warn(ctx, "login attempt for inactive user", "user_id", user.ID)
		return nil, nil, common.ErrInvalidCredentials
	}

	if !s.hasher.Compare(ctx, user.PasswordHash, plainPassword) {
		s.logger.Warn(ctx, "login attempt with wrong password", "user_id", user.ID)
		return nil, nil, common.ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, nil, common.ErrInternal
	}

	s.logger.Info(ctx, "user authenticated", "user_id", user.ID, "user_type", user.UserType)
	return pair, user.Public(), nil
}

// Register creates a user and immediately authenticates it, returning the
// public user view and a fresh token pair. A duplicate email or username
// yields common.ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*models.PublicUser, *TokenPair, error) {

	hash, err := s.hasher.Hash(ctx, params.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, nil, common.ErrInternal
	}

	userType := params.UserType
	if userType == "" {
		userType = models.UserTypeIndependent
	}

	user := &models.User{
		Username:      params.Username,
		Email:         params.Email,
		PasswordHash:  hash,
		FullName:      params.FullName,
		UserType:      userType,
		InstitutionID: params.InstitutionID,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, nil, common.ErrAlreadyExists
		}
		s.logger.Error(ctx, "user creation failed", "error", err.Error())
		return nil, nil, common.ErrInternal
	}

	pair, err := s.issuePair(user)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, nil, common.ErrInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "user_type", user.UserType)
	return user.Public(), pair, nil
}

// Refresh validates a refresh token, re-checks that the user still exists and
// is active, and mints a brand-new access+refresh pair. The old refresh token
// is not invalidated server-side; the client is expected to discard it.
// Expired, malformed, or no-longer-eligible tokens all yield
// common.ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	claims, err := s.codec.Verify(auth.ClassRefresh, refreshToken)
	if err != nil {
		s.logger.Warn(ctx, "refresh token rejected", "cause", err.Error())
		return nil, common.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "refresh token for missing user", "user_id", claims.Subject)
			return nil, common.ErrInvalidRefreshToken
		}
		s.logger.Error(ctx, "credential store lookup failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	if !user.Active {
		s.logger.Warn(ctx, "refresh token for inactive user", "user_id", user.ID)
		return nil, common.ErrInvalidRefreshToken
	}

	pair, err := s.issuePair(user)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, common.ErrInternal
	}

	return pair, nil
}

// InitiatePasswordReset issues a single-use reset token bound to the user's
// current email and hands it to the mail sender. It reports success whether
// or not the email is registered, so callers cannot probe for accounts.
func (s *AuthService) InitiatePasswordReset(ctx context.Context, email string) error {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "password reset requested for unknown email", "email", email)
			return nil
		}
		s.logger.Error(ctx, "credential store lookup failed", "error", err.Error())
		return common.ErrInternal
	}

	token, err := s.codec.Issue(auth.ClassReset, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		Email:            user.Email,
	})
	if err != nil {
		s.logger.Error(ctx, "issuing reset token failed", "error", err.Error())
		return common.ErrInternal
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, token); err != nil {
		s.logger.Error(ctx, "reset email delivery failed", "user_id", user.ID, "error", err.Error())
		return common.ErrInternal
	}

	s.logger.Info(ctx, "password reset token issued", "user_id", user.ID)
	return nil
}

// ResetPassword verifies the reset token, checks that the embedded email
// still matches the account, and overwrites the stored hash in one update.
// An email change after issuance invalidates the token.
func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {

	claims, err := s.codec.Verify(auth.ClassReset, token)
	if err != nil {
		s.logger.Warn(ctx, "reset token rejected", "cause", err.Error())
		return common.ErrInvalidResetToken
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "reset token for missing user", "user_id", claims.Subject)
			return common.ErrInvalidResetToken
		}
		s.logger.Error(ctx, "credential store lookup failed", "error", err.Error())
		return common.ErrInternal
	}

	if user.Email != claims.Email {
		s.logger.Warn(ctx, "reset token email mismatch", "user_id", user.ID)
		return common.ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return common.ErrInternal
	}

	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Error(ctx, "password update failed", "user_id", user.ID, "error", err.Error())
		return common.ErrInternal
	}

	s.logger.Info(ctx, "password reset completed", "user_id", user.ID)
	return nil
}
