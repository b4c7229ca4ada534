package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adolfosa/feria-manager/internal/users"
	pkgauth "github.com/adolfosa/feria-manager/pkg/auth"
	"github.com/adolfosa/feria-manager/pkg/config"
	"github.com/adolfosa/feria-manager/pkg/db/models"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
)

// SessionRegistry is the session lifecycle surface the sign-in flow needs.
type SessionRegistry interface {
	Start(ctx context.Context, sessionID, userID string) error
	Revoke(ctx context.Context, sessionID string) error
}

// SignInResult carries the minted session token and the stored user.
type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Service exchanges Google ID tokens for feria sessions.
type Service interface {
	SignInWithGoogle(ctx context.Context, rawIDToken string) (*SignInResult, error)
	SignOut(ctx context.Context, sessionID string) error
}

type service struct {
	verifier GoogleVerifier
	users    *users.Repository
	sessions SessionRegistry
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService builds the sign-in service.
func NewService(verifier GoogleVerifier, userRepo *users.Repository, sessions SessionRegistry, jwtCfg config.JWTConfig) (Service, error) {
	if verifier == nil {
		return nil, fmt.Errorf("google verifier required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session registry required")
	}
	return &service{
		verifier: verifier,
		users:    userRepo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

func (s *service) SignInWithGoogle(ctx context.Context, rawIDToken string) (*SignInResult, error) {
	if strings.TrimSpace(rawIDToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id token is required")
	}

	identity, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "google token rejected")
	}

	var picture *string
	if identity.Picture != "" {
		picture = &identity.Picture
	}
	user, err := s.users.Upsert(ctx, &models.User{
		GoogleSub: identity.Sub,
		Name:      identity.Name,
		Email:     identity.Email,
		Picture:   picture,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store user")
	}

	now := s.now()
	sessionID := uuid.NewString()
	token, err := pkgauth.MintSessionToken(s.jwtCfg, now, pkgauth.SessionTokenPayload{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	if err := s.sessions.Start(ctx, sessionID, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}

	return &SignInResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.AccessTokenTTL()),
		User:      user,
	}, nil
}

func (s *service) SignOut(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
