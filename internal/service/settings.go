package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/cache"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

// settingsStaleTime bounds how long Current trusts the mirror
const settingsStaleTime = 10 * time.Minute

// SettingsService reads and updates job settings with an optimistic mirror
type SettingsService struct {
	store    SettingsStore
	recorder *recorder
	mirror   *cache.Mirror[*models.JobSettings]
	logger   *zap.Logger
	now      func() time.Time
}

func newSettingsService(d Deps, rec *recorder) *SettingsService {
	return &SettingsService{
		store:    d.Settings,
		recorder: rec,
		mirror:   cache.NewMirror(cloneSettings),
		logger:   d.Logger,
		now:      d.Now,
	}
}

func cloneSettings(s *models.JobSettings) *models.JobSettings {
	if s == nil {
		return nil
	}
	c := *s
	c.Preferences = models.Preferences{
		JobTypes:   append([]string(nil), s.Preferences.JobTypes...),
		Industries: append([]string(nil), s.Preferences.Industries...),
	}
	return &c
}

// Fetch returns the user's settings, inserting the defaults on first read
func (s *SettingsService) Fetch(ctx context.Context, session *models.Session) (*models.JobSettings, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	settings, err := s.store.GetJobSettings(ctx, session.UserID)
	if err != nil {
		return nil, app.Remote("fetch job settings", err)
	}
	if settings == nil {
		settings, err = s.createDefaults(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
	}

	s.mirror.Set(session.UserID, settings)
	return settings, nil
}

func (s *SettingsService) createDefaults(ctx context.Context, userID string) (*models.JobSettings, error) {
	defaults := &models.JobSettings{
		UserID:          userID,
		DifficultyLevel: models.DefaultDifficulty,
		QuestionCount:   models.DefaultQuestionCount,
		UpdatedAt:       s.now().UTC(),
	}
	settings, err := s.store.InsertJobSettings(ctx, defaults)
	if err != nil {
		// A concurrent first read may have inserted the row already
		existing, getErr := s.store.GetJobSettings(ctx, userID)
		if getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, app.Remote("create default job settings", err)
	}
	s.logger.Debug("created default job settings", zap.String("user_id", userID))
	return settings, nil
}

// Cached returns the mirrored settings without a remote call
func (s *SettingsService) Cached(userID string) (*models.JobSettings, bool) {
	return s.mirror.Get(userID)
}

// Current serves settings from the mirror while they are younger than
// settingsStaleTime and fetches otherwise
func (s *SettingsService) Current(ctx context.Context, session *models.Session) (*models.JobSettings, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if cached, ok := s.mirror.GetFresh(session.UserID, settingsStaleTime); ok && cached != nil {
		return cached, nil
	}
	return s.Fetch(ctx, session)
}

// UpdateRaw validates loosely typed input, as decoded from JSON, then updates
func (s *SettingsService) UpdateRaw(ctx context.Context, session *models.Session, raw map[string]any) (*models.JobSettings, error) {
	patch, err := validation.Settings(raw, true)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, session, patch)
}

// Update applies patch optimistically: the mirror shows the merged value
// while the remote write is in flight and reverts to the previous value
// if it fails.
func (s *SettingsService) Update(ctx context.Context, session *models.Session, patch models.SettingsPatch) (*models.JobSettings, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	// Change detection and previous_values come from the stored row; the
	// mirror may predate writes from another process
	previous, err := s.Fetch(ctx, session)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return previous, nil
	}

	candidate := patch.Apply(*previous)
	if err := validation.JobSettings(candidate); err != nil {
		return nil, err
	}
	snap := s.mirror.Apply(session.UserID, &candidate)

	updated, err := s.store.UpdateJobSettings(ctx, session.UserID, patch, s.now().UTC())
	if err != nil {
		if !s.mirror.Rollback(snap) {
			s.logger.Debug("skipped stale settings rollback", zap.String("user_id", session.UserID))
		}
		return nil, app.Remote("update job settings", err)
	}
	if !s.mirror.Confirm(snap, updated) {
		// A fetch or another write landed meanwhile; the row just written
		// is the newest known server state
		s.mirror.Set(session.UserID, updated)
	}

	if changes := settingsChanges(previous, patch); len(changes) > 0 {
		s.recorder.record(ctx, session.UserID, models.ActivitySettingsChange,
			"Updated job settings: "+strings.Join(changes, ", "),
			map[string]any{
				"changes": patchMap(patch),
				"previous_values": map[string]any{
					"difficulty_level": previous.DifficultyLevel,
					"question_count":   previous.QuestionCount,
					"preferences":      previous.Preferences,
				},
			})
	}
	return updated, nil
}

// validatePatch checks typed patches the same way raw input is checked
func validatePatch(patch models.SettingsPatch) error {
	raw := map[string]any{}
	if patch.DifficultyLevel != nil {
		raw["difficulty_level"] = *patch.DifficultyLevel
	}
	if patch.QuestionCount != nil {
		raw["question_count"] = *patch.QuestionCount
	}
	_, err := validation.Settings(raw, true)
	return err
}

// settingsChanges lists "field: old → new" for fields the patch changes
func settingsChanges(prev *models.JobSettings, patch models.SettingsPatch) []string {
	changes := []string{}
	if patch.DifficultyLevel != nil && *patch.DifficultyLevel != prev.DifficultyLevel {
		changes = append(changes, fmt.Sprintf("difficulty_level: %s → %s", prev.DifficultyLevel, *patch.DifficultyLevel))
	}
	if patch.QuestionCount != nil && *patch.QuestionCount != prev.QuestionCount {
		changes = append(changes, fmt.Sprintf("question_count: %d → %d", prev.QuestionCount, *patch.QuestionCount))
	}
	if patch.Preferences != nil && !reflect.DeepEqual(normalizePrefs(*patch.Preferences), normalizePrefs(prev.Preferences)) {
		changes = append(changes, "preferences updated")
	}
	return changes
}

func normalizePrefs(p models.Preferences) models.Preferences {
	if len(p.JobTypes) == 0 {
		p.JobTypes = nil
	}
	if len(p.Industries) == 0 {
		p.Industries = nil
	}
	return p
}

func patchMap(patch models.SettingsPatch) map[string]any {
	m := map[string]any{}
	if patch.DifficultyLevel != nil {
		m["difficulty_level"] = *patch.DifficultyLevel
	}
	if patch.QuestionCount != nil {
		m["question_count"] = *patch.QuestionCount
	}
	if patch.Preferences != nil {
		m["preferences"] = *patch.Preferences
	}
	return m
}
