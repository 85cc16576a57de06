package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/khrees2412/mockprep/internal/database"
	"github.com/khrees2412/mockprep/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidSession     = errors.New("session is invalid or expired")
)

// DefaultSessionTTL is how long an issued access token stays valid
const DefaultSessionTTL = 7 * 24 * time.Hour

// Provider is the password auth provider backed by the users and sessions tables
type Provider struct {
	store *database.Store
	ttl   time.Duration
	cost  int
	now   func() time.Time
}

type Option func(*Provider)

// WithSessionTTL overrides DefaultSessionTTL
func WithSessionTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithHashCost sets the bcrypt cost
func WithHashCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func NewProvider(store *database.Store, opts ...Option) *Provider {
	p := &Provider{
		store: store,
		ttl:   DefaultSessionTTL,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the user and its profile row
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (*database.User, error) {
	email = normalizeEmail(email)
	existing, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := p.now().UTC()
	user := &database.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &models.Profile{
		ID:        user.ID,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.store.CreateAccount(ctx, user, profile); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify checks a password without issuing a session
func (p *Provider) Verify(ctx context.Context, email, password string) (*database.User, error) {
	user, err := p.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SignInWithPassword verifies the password and issues a session
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := p.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()
	sess := &database.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(p.ttl),
		CreatedAt: now,
	}
	if err := p.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return &models.Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: sess.Token,
		ExpiresAt:   sess.ExpiresAt,
	}, nil
}

// Resolve maps an access token to its session
func (p *Provider) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	sess, err := p.store.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil || !p.now().Before(sess.ExpiresAt) {
		return nil, ErrInvalidSession
	}
	user, err := p.store.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidSession
	}
	return &models.Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: sess.Token,
		ExpiresAt:   sess.ExpiresAt,
	}, nil
}

func (p *Provider) UpdateEmail(ctx context.Context, userID, email string) error {
	email = normalizeEmail(email)
	existing, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != userID {
		return ErrEmailTaken
	}
	return p.store.UpdateUserEmail(ctx, userID, email, p.now().UTC())
}

func (p *Provider) UpdatePassword(ctx context.Context, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return p.store.UpdateUserPassword(ctx, userID, string(hash), p.now().UTC())
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	return p.store.DeleteSession(ctx, token)
}

// PurgeExpired deletes sessions past their expiry
func (p *Provider) PurgeExpired(ctx context.Context) (int64, error) {
	return p.store.DeleteExpiredSessions(ctx, p.now().UTC())
}
