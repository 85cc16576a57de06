package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/auth"
	"github.com/khrees2412/mockprep/internal/cache"
	"github.com/khrees2412/mockprep/internal/saga"
	"github.com/khrees2412/mockprep/internal/storage"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

// ProfileService reads and edits the user's profile and credentials
type ProfileService struct {
	store    ProfileStore
	auth     AuthProvider
	blobs    storage.Store
	recorder *recorder
	mirror   *cache.Mirror[*models.Profile]
	logger   *zap.Logger
	maxSize  int64
	now      func() time.Time
}

func newProfileService(d Deps, rec *recorder) *ProfileService {
	return &ProfileService{
		store:    d.Profiles,
		auth:     d.Auth,
		blobs:    d.Blobs,
		recorder: rec,
		mirror:   cache.NewMirror(cloneProfile),
		logger:   d.Logger,
		maxSize:  d.MaxResumeSize,
		now:      d.Now,
	}
}

func cloneProfile(p *models.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (s *ProfileService) FetchProfile(ctx context.Context, session *models.Session) (*models.Profile, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, session.UserID)
	if err != nil {
		return nil, app.Remote("fetch profile", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile %s: %w", session.UserID, app.ErrNotFound)
	}
	s.mirror.Set(session.UserID, profile)
	return profile, nil
}

// Cached returns the mirrored profile without a remote call
func (s *ProfileService) Cached(userID string) (*models.Profile, bool) {
	return s.mirror.Get(userID)
}

// UpdateProfile writes name and email. An email change is also pushed to
// the auth provider; if that fails the profile row is put back.
func (s *ProfileService) UpdateProfile(ctx context.Context, session *models.Session, update validation.ProfileUpdate) (*models.Profile, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	update, err := validation.Profile(update)
	if err != nil {
		return nil, err
	}

	// Diff against the stored row; the mirror may predate writes from
	// another process
	previous, err := s.FetchProfile(ctx, session)
	if err != nil {
		return nil, err
	}
	emailChanged := update.Email != previous.Email

	var updated *models.Profile
	err = saga.New("profile update", s.logger,
		saga.Step{
			Name: "update profile row",
			Do: func(ctx context.Context) error {
				var err error
				updated, err = s.store.UpdateProfile(ctx, session.UserID, update.Name, update.Email, s.now().UTC())
				return err
			},
			Compensate: func(ctx context.Context) error {
				return s.store.UpdateProfileEmail(ctx, session.UserID, previous.Email, s.now().UTC())
			},
		},
		saga.Step{
			Name: "update auth email",
			Skip: func() bool { return !emailChanged },
			Do: func(ctx context.Context) error {
				return s.auth.UpdateEmail(ctx, session.UserID, update.Email)
			},
		},
	).Run(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return nil, app.NewValidationError("email", "Email is already in use")
		}
		return nil, app.Remote("update profile", err)
	}

	changes := []string{}
	changed := map[string]any{}
	if update.Name != previous.Name {
		changes = append(changes, fmt.Sprintf("name: %s → %s", previous.Name, update.Name))
		changed["name"] = update.Name
	}
	if emailChanged {
		changes = append(changes, fmt.Sprintf("email: %s → %s", previous.Email, update.Email))
		changed["email"] = update.Email
	}
	if len(changes) > 0 {
		s.recorder.record(ctx, session.UserID, models.ActivityProfileUpdate,
			"Updated profile: "+strings.Join(changes, ", "),
			map[string]any{
				"changes": changed,
				"previous_values": map[string]any{
					"name":  previous.Name,
					"email": previous.Email,
				},
			})
	}

	s.mirror.Set(session.UserID, updated)
	return updated, nil
}

// ChangePassword re-authenticates with the current password, then sets the new one
func (s *ProfileService) ChangePassword(ctx context.Context, session *models.Session, in validation.PasswordChange) error {
	if err := requireSession(session); err != nil {
		return err
	}
	in, err := validation.Password(in)
	if err != nil {
		return err
	}

	if _, err := s.auth.Verify(ctx, session.Email, in.CurrentPassword); err != nil {
		return app.ErrIncorrectPassword
	}
	if err := s.auth.UpdatePassword(ctx, session.UserID, in.NewPassword); err != nil {
		return app.Remote("update password", err)
	}

	s.recorder.record(ctx, session.UserID, models.ActivityPasswordChange,
		"Password changed successfully",
		map[string]any{"timestamp": s.now().UTC().Format(time.RFC3339)})
	return nil
}

// SaveResumeText stores a plain-text resume on the profile
func (s *ProfileService) SaveResumeText(ctx context.Context, session *models.Session, text string) (*models.Profile, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	text, err := validation.ResumeText(text)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateProfileResume(ctx, session.UserID, text, s.now().UTC()); err != nil {
		return nil, app.Remote("save resume text", err)
	}

	s.recorder.record(ctx, session.UserID, models.ActivityProfileUpdate,
		"Updated profile: resume text",
		map[string]any{"changes": map[string]any{"resume_length": len(text)}})
	return s.FetchProfile(ctx, session)
}

// AttachResumeFile uploads to {user_id}/resume.{ext}, replacing any earlier
// file, and stores its public URL on the profile
func (s *ProfileService) AttachResumeFile(ctx context.Context, session *models.Session, file UploadFile) (*models.Profile, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := validation.ResumeFile(file.validationFile(), s.maxSize); err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Name), "."))
	if ext == "" {
		ext = "bin"
	}
	path := fmt.Sprintf("%s/resume.%s", session.UserID, ext)

	err := s.blobs.Upload(ctx, path, file.Body, file.Size, storage.UploadOptions{
		ContentType: file.ContentType,
		Overwrite:   true,
	})
	if err != nil {
		return nil, app.Remote("upload resume file", err)
	}

	url := s.blobs.PublicURL(path)
	if err := s.store.UpdateProfileResumeFileURL(ctx, session.UserID, url, s.now().UTC()); err != nil {
		return nil, app.Remote("save resume file url", err)
	}

	s.recorder.record(ctx, session.UserID, models.ActivityProfileUpdate,
		"Updated profile: resume file "+file.Name,
		map[string]any{"changes": map[string]any{"resume_file_url": url}})
	return s.FetchProfile(ctx, session)
}
