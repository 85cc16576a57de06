package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/ai"
	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/database"
	"github.com/khrees2412/mockprep/internal/storage"
	"github.com/khrees2412/mockprep/pkg/models"
)

// Row store collaborators. *database.Store satisfies all of them.
type (
	ProfileStore interface {
		GetProfile(ctx context.Context, id string) (*models.Profile, error)
		UpdateProfile(ctx context.Context, id, name, email string, now time.Time) (*models.Profile, error)
		UpdateProfileEmail(ctx context.Context, id, email string, now time.Time) error
		UpdateProfileResume(ctx context.Context, id, text string, now time.Time) error
		UpdateProfileResumeFileURL(ctx context.Context, id, url string, now time.Time) error
	}

	ResumeStore interface {
		GetResume(ctx context.Context, userID string) (*models.Resume, error)
		UpsertResume(ctx context.Context, r *models.Resume) (*models.Resume, error)
		DeleteResume(ctx context.Context, userID string) error
	}

	SettingsStore interface {
		GetJobSettings(ctx context.Context, userID string) (*models.JobSettings, error)
		InsertJobSettings(ctx context.Context, js *models.JobSettings) (*models.JobSettings, error)
		UpdateJobSettings(ctx context.Context, userID string, patch models.SettingsPatch, now time.Time) (*models.JobSettings, error)
	}

	InterviewStore interface {
		CreateInterview(ctx context.Context, i *models.Interview) error
		GetInterview(ctx context.Context, userID, id string) (*models.Interview, error)
		ListInterviews(ctx context.Context, userID string) ([]*models.Interview, error)
	}

	ActivityStore interface {
		LogActivity(ctx context.Context, a *models.Activity) error
		ListActivity(ctx context.Context, userID string, offset, limit int, activityType string) ([]*models.Activity, int, error)
	}
)

// AuthProvider is the identity collaborator. *auth.Provider satisfies it.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*database.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	Verify(ctx context.Context, email, password string) (*database.User, error)
	Resolve(ctx context.Context, token string) (*models.Session, error)
	UpdateEmail(ctx context.Context, userID, email string) error
	UpdatePassword(ctx context.Context, userID, password string) error
	SignOut(ctx context.Context, token string) error
}

// QuestionGenerator produces interview questions. *ai.Client satisfies it.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req ai.QuestionRequest) ([]string, error)
}

// Publisher fans activity out to other consumers. *events.Publisher satisfies it.
type Publisher interface {
	PublishActivity(ctx context.Context, a *models.Activity) error
}

// Deps wires the services to their collaborators
type Deps struct {
	Profiles   ProfileStore
	Resumes    ResumeStore
	Settings   SettingsStore
	Interviews InterviewStore
	Activity   ActivityStore
	Blobs      storage.Store
	Auth       AuthProvider
	Generator  QuestionGenerator
	Publisher  Publisher // optional

	Logger        *zap.Logger
	MaxResumeSize int64
	PageSize      int
	Now           func() time.Time
}

// Services groups the data-access services over one set of collaborators
type Services struct {
	Account   *AccountService
	Profile   *ProfileService
	Resume    *ResumeService
	Settings  *SettingsService
	Activity  *ActivityService
	Interview *InterviewService
	Overview  *OverviewService
}

const (
	defaultMaxResumeSize = 10 * 1024 * 1024
	defaultPageSize      = 20
)

func New(d Deps) *Services {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.MaxResumeSize <= 0 {
		d.MaxResumeSize = defaultMaxResumeSize
	}
	if d.PageSize <= 0 {
		d.PageSize = defaultPageSize
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	rec := &recorder{store: d.Activity, publisher: d.Publisher, logger: d.Logger, now: d.Now}

	s := &Services{
		Account:  &AccountService{auth: d.Auth, recorder: rec, logger: d.Logger},
		Profile:  newProfileService(d, rec),
		Resume:   newResumeService(d, rec),
		Settings: newSettingsService(d, rec),
		Activity: &ActivityService{store: d.Activity, pageSize: d.PageSize},
	}
	s.Interview = &InterviewService{
		store:     d.Interviews,
		profiles:  s.Profile,
		settings:  s.Settings,
		generator: d.Generator,
		logger:    d.Logger,
		now:       d.Now,
	}
	s.Account.forget = func(userID string) {
		s.Profile.mirror.Clear(userID)
		s.Settings.mirror.Clear(userID)
		s.Resume.mirror.Clear(userID)
	}
	s.Overview = &OverviewService{
		profiles: s.Profile,
		settings: s.Settings,
		resumes:  s.Resume,
		activity: s.Activity,
	}
	return s
}

// FromApp builds the services over the App's collaborators
func FromApp(a *app.App) *Services {
	d := Deps{
		Profiles:      a.Store,
		Resumes:       a.Store,
		Settings:      a.Store,
		Interviews:    a.Store,
		Activity:      a.Store,
		Blobs:         a.Blobs,
		Auth:          a.Auth,
		Generator:     a.AI,
		Logger:        a.Logger,
		MaxResumeSize: a.Config.MaxResumeSize(),
		PageSize:      a.Config.ActivityPageSize,
	}
	if a.Publisher != nil {
		d.Publisher = a.Publisher
	}
	return New(d)
}

func requireSession(s *models.Session) error {
	if s == nil || s.UserID == "" {
		return app.ErrUnauthorized
	}
	return nil
}
