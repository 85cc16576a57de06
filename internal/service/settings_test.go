package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/pkg/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestSettingsFetchCreatesDefaultsOnce(t *testing.T) {
	var counter *countingSettings
	env := newTestEnv(t, func(d *Deps) {
		counter = &countingSettings{SettingsStore: d.Settings}
		d.Settings = counter
	})
	ctx := context.Background()

	first, err := env.svc.Settings.Fetch(ctx, env.session)
	require.NoError(t, err)
	assert.Equal(t, env.session.UserID, first.UserID)
	assert.Equal(t, models.DifficultyMedium, first.DifficultyLevel)
	assert.Equal(t, 10, first.QuestionCount)
	assert.Empty(t, first.Preferences.JobTypes)
	assert.Empty(t, first.Preferences.Industries)

	second, err := env.svc.Settings.Fetch(ctx, env.session)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, counter.inserts)
}

func TestSettingsOptimisticUpdateRollsBack(t *testing.T) {
	blocker := &blockingSettings{entered: make(chan struct{}), release: make(chan error)}
	env := newTestEnv(t, func(d *Deps) {
		blocker.SettingsStore = d.Settings
		d.Settings = blocker
	})
	ctx := context.Background()

	before, err := env.svc.Settings.Fetch(ctx, env.session)
	require.NoError(t, err)

	type result struct {
		settings *models.JobSettings
		err      error
	}
	done := make(chan result)
	go func() {
		s, err := env.svc.Settings.Update(ctx, env.session, models.SettingsPatch{QuestionCount: intPtr(12)})
		done <- result{s, err}
	}()

	<-blocker.entered
	inflight, ok := env.svc.Settings.Cached(env.session.UserID)
	require.True(t, ok)
	assert.Equal(t, models.DifficultyMedium, inflight.DifficultyLevel)
	assert.Equal(t, 12, inflight.QuestionCount)

	blocker.release <- errRemote
	res := <-done
	var re *app.RemoteError
	require.ErrorAs(t, res.err, &re)
	assert.ErrorIs(t, res.err, errRemote)

	after, ok := env.svc.Settings.Cached(env.session.UserID)
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Empty(t, env.activity(t, models.ActivitySettingsChange))
}

func TestSettingsUpdateConfirmsServerRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.svc.Settings.Update(ctx, env.session, models.SettingsPatch{
		DifficultyLevel: strPtr(models.DifficultyDifficult),
		QuestionCount:   intPtr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyDifficult, updated.DifficultyLevel)
	assert.Equal(t, 12, updated.QuestionCount)

	cached, _ := env.svc.Settings.Cached(env.session.UserID)
	assert.Equal(t, updated, cached)

	entries := env.activity(t, models.ActivitySettingsChange)
	require.Len(t, entries, 1)
	assert.Equal(t, "Updated job settings: difficulty_level: medium → difficult, question_count: 10 → 12", entries[0].Description)
	prev := entries[0].Metadata["previous_values"].(map[string]any)
	assert.Equal(t, float64(10), prev["question_count"])
}

func TestSettingsUpdateWithoutChangeLogsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Settings.Update(ctx, env.session, models.SettingsPatch{QuestionCount: intPtr(10)})
	require.NoError(t, err)
	assert.Empty(t, env.activity(t, models.ActivitySettingsChange))
}

func TestSettingsUpdateRejectsInvalidPatch(t *testing.T) {
	blocker := &blockingSettings{entered: make(chan struct{}), release: make(chan error)}
	env := newTestEnv(t, func(d *Deps) {
		blocker.SettingsStore = d.Settings
		d.Settings = blocker
	})

	_, err := env.svc.Settings.Update(context.Background(), env.session, models.SettingsPatch{QuestionCount: intPtr(16)})
	var ve *app.ValidationError
	require.ErrorAs(t, err, &ve)

	select {
	case <-blocker.entered:
		t.Fatal("remote update must not run for invalid input")
	default:
	}
}

func TestSettingsUpdateRaw(t *testing.T) {
	env := newTestEnv(t)

	updated, err := env.svc.Settings.UpdateRaw(context.Background(), env.session, map[string]any{
		"question_count": "8",
		"preferences":    map[string]any{"industries": []any{"fintech"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.QuestionCount)
	assert.Equal(t, []string{"fintech"}, updated.Preferences.Industries)

	_, err = env.svc.Settings.UpdateRaw(context.Background(), env.session, map[string]any{"question_count": 7.5})
	var ve *app.ValidationError
	require.ErrorAs(t, err, &ve)
	msg, _ := ve.Field("question_count")
	assert.Equal(t, "Question count must be a whole number", msg)
}

func TestSettingsRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Settings.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, app.ErrUnauthorized)
}

func TestSettingsUpdateDiffsAgainstStoredRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cli := env.otherProcess()

	_, err := env.svc.Settings.Fetch(ctx, env.session)
	require.NoError(t, err)

	_, err = cli.Settings.Update(ctx, env.session, models.SettingsPatch{QuestionCount: intPtr(12)})
	require.NoError(t, err)

	updated, err := env.svc.Settings.Update(ctx, env.session, models.SettingsPatch{QuestionCount: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.QuestionCount)

	entries := env.activity(t, models.ActivitySettingsChange)
	require.Len(t, entries, 2)
	assert.Equal(t, "Updated job settings: question_count: 12 → 10", entries[0].Description)
	prev := entries[0].Metadata["previous_values"].(map[string]any)
	assert.Equal(t, float64(12), prev["question_count"])
}

func TestSettingsUpdateKeepsServerRowAfterConcurrentFetch(t *testing.T) {
	blocker := &blockingSettings{entered: make(chan struct{}), release: make(chan error)}
	env := newTestEnv(t, func(d *Deps) {
		blocker.SettingsStore = d.Settings
		d.Settings = blocker
	})
	ctx := context.Background()

	done := make(chan error)
	go func() {
		_, err := env.svc.Settings.Update(ctx, env.session, models.SettingsPatch{QuestionCount: intPtr(12)})
		done <- err
	}()

	<-blocker.entered
	// a read lands while the write is in flight and sees the old row
	stale, err := env.svc.Settings.Fetch(ctx, env.session)
	require.NoError(t, err)
	assert.Equal(t, 10, stale.QuestionCount)

	blocker.release <- nil
	require.NoError(t, <-done)

	cached, ok := env.svc.Settings.Cached(env.session.UserID)
	require.True(t, ok)
	assert.Equal(t, 12, cached.QuestionCount)
}

func TestSettingsCurrentServesFreshMirror(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fetched, err := env.svc.Settings.Fetch(ctx, env.session)
	require.NoError(t, err)

	_, err = env.store.UpdateJobSettings(ctx, env.session.UserID, models.SettingsPatch{QuestionCount: intPtr(14)}, env.clock.Now())
	require.NoError(t, err)

	current, err := env.svc.Settings.Current(ctx, env.session)
	require.NoError(t, err)
	assert.Equal(t, fetched, current)

	_, err = env.svc.Settings.Current(ctx, nil)
	assert.ErrorIs(t, err, app.ErrUnauthorized)
}
