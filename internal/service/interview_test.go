package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

const backendJob = "Backend engineer. Requirements: Go, Kubernetes, Postgres and Kafka experience."

func TestInterviewCreateFallsBackToSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Settings.Update(ctx, env.session, models.SettingsPatch{QuestionCount: intPtr(7)})
	require.NoError(t, err)

	interview, err := env.svc.Interview.Create(ctx, env.session, models.InterviewRequest{JobDescription: backendJob})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, interview.Difficulty)
	assert.Equal(t, 7, interview.NumQuestions)
	assert.NotEmpty(t, interview.ID)

	explicit, err := env.svc.Interview.Create(ctx, env.session, models.InterviewRequest{
		JobDescription: backendJob,
		Difficulty:     models.DifficultyDifficult,
		NumQuestions:   15,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyDifficult, explicit.Difficulty)
	assert.Equal(t, 15, explicit.NumQuestions)

	list, err := env.svc.Interview.List(ctx, env.session)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, explicit.ID, list[0].ID)
}

func TestInterviewCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Interview.Create(context.Background(), env.session, models.InterviewRequest{
		JobDescription: " ",
		NumQuestions:   3,
	})
	var ve *app.ValidationError
	require.ErrorAs(t, err, &ve)
	_, ok := ve.Field("job_description")
	assert.True(t, ok)
	_, ok = ve.Field("num_questions")
	assert.True(t, ok)
}

func TestInterviewQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Profile.SaveResumeText(ctx, env.session, "Go developer who runs Postgres in production")
	require.NoError(t, err)
	interview, err := env.svc.Interview.Create(ctx, env.session, models.InterviewRequest{JobDescription: backendJob})
	require.NoError(t, err)

	set, err := env.svc.Interview.Questions(ctx, env.session, interview.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.ID, set.InterviewID)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, set.Questions)
	assert.Contains(t, set.FocusAreas, "kubernetes")
	assert.NotContains(t, set.FocusAreas, "postgres")
	assert.Greater(t, set.MatchScore, 0.0)

	env.gen.mu.Lock()
	defer env.gen.mu.Unlock()
	assert.Equal(t, backendJob, env.gen.last.JobDescription)
	assert.Equal(t, 10, env.gen.last.Count)
	assert.Equal(t, set.FocusAreas, env.gen.last.FocusAreas)
}

func TestInterviewQuestionsErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Interview.Questions(ctx, env.session, "missing")
	assert.ErrorIs(t, err, app.ErrNotFound)

	interview, err := env.svc.Interview.Create(ctx, env.session, models.InterviewRequest{JobDescription: backendJob})
	require.NoError(t, err)

	env.gen.mu.Lock()
	env.gen.err = errRemote
	env.gen.mu.Unlock()
	_, err = env.svc.Interview.Questions(ctx, env.session, interview.ID)
	var re *app.RemoteError
	require.ErrorAs(t, err, &re)
}

func TestOverviewLoad(t *testing.T) {
	env := newTestEnv(t)

	ov, err := env.svc.Overview.Load(context.Background(), env.session)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", ov.Profile.Name)
	assert.Equal(t, models.DefaultQuestionCount, ov.Settings.QuestionCount)
	assert.Nil(t, ov.Resume)
	require.Len(t, ov.Activity.Items, 1)
	assert.False(t, ov.Activity.HasMore)
}

func TestAccountSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resolved, err := env.svc.Account.Resolve(ctx, env.session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, env.session.UserID, resolved.UserID)

	_, err = env.svc.Account.Resolve(ctx, "bogus")
	assert.ErrorIs(t, err, app.ErrUnauthorized)

	require.NoError(t, env.svc.Account.SignOut(ctx, env.session))
	_, err = env.svc.Account.Resolve(ctx, env.session.AccessToken)
	assert.ErrorIs(t, err, app.ErrUnauthorized)

	_, err = env.svc.Account.SignUp(ctx, validation.SignUp{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	var ve *app.ValidationError
	require.ErrorAs(t, err, &ve)
	msg, _ := ve.Field("email")
	assert.Equal(t, "Email is already in use", msg)

	entries := env.activity(t, models.ActivityAccountCreated)
	require.Len(t, entries, 1)
}

func TestSignOutDropsMirroredRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Profile.FetchProfile(ctx, env.session)
	require.NoError(t, err)
	_, err = env.svc.Settings.Fetch(ctx, env.session)
	require.NoError(t, err)

	require.NoError(t, env.svc.Account.SignOut(ctx, env.session))

	_, ok := env.svc.Profile.Cached(env.session.UserID)
	assert.False(t, ok)
	_, ok = env.svc.Settings.Cached(env.session.UserID)
	assert.False(t, ok)
}
