package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/auth"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

// AccountService handles sign-up and sessions
type AccountService struct {
	auth     AuthProvider
	recorder *recorder
	logger   *zap.Logger
	forget   func(userID string)
}

// SignUp creates the account and its profile, then signs in
func (s *AccountService) SignUp(ctx context.Context, in validation.SignUp) (*models.Session, error) {
	in, err := validation.SignUpForm(in)
	if err != nil {
		return nil, err
	}

	user, err := s.auth.SignUp(ctx, in.Email, in.Password, in.Name)
	if errors.Is(err, auth.ErrEmailTaken) {
		return nil, app.NewValidationError("email", "Email is already in use")
	}
	if err != nil {
		return nil, app.Remote("sign up", err)
	}

	s.recorder.record(ctx, user.ID, models.ActivityAccountCreated,
		"Account created",
		map[string]any{"email": user.Email})
	s.logger.Info("account created", zap.String("user_id", user.ID))

	return s.SignIn(ctx, in.Email, in.Password)
}

func (s *AccountService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return nil, app.ErrUnauthorized
	}
	if err != nil {
		return nil, app.Remote("sign in", err)
	}
	return session, nil
}

// SignOut ends the session and drops the user's mirrored rows
func (s *AccountService) SignOut(ctx context.Context, session *models.Session) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := s.auth.SignOut(ctx, session.AccessToken); err != nil {
		return app.Remote("sign out", err)
	}
	if s.forget != nil {
		s.forget(session.UserID)
	}
	return nil
}

// Resolve maps an access token to its session; unknown or expired tokens
// are ErrUnauthorized
func (s *AccountService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.auth.Resolve(ctx, token)
	if errors.Is(err, auth.ErrInvalidSession) {
		return nil, app.ErrUnauthorized
	}
	if err != nil {
		return nil, app.Remote("resolve session", err)
	}
	return session, nil
}
