package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/ai"
	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/matcher"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

const maxFocusAreas = 5

// InterviewService records practice interview requests and generates their questions
type InterviewService struct {
	store     InterviewStore
	profiles  *ProfileService
	settings  *SettingsService
	generator QuestionGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// Create records a practice interview. Blank difficulty or count fall back
// to the user's job settings.
func (s *InterviewService) Create(ctx context.Context, session *models.Session, req models.InterviewRequest) (*models.Interview, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	req, err := validation.InterviewRequest(req)
	if err != nil {
		return nil, err
	}

	if req.Difficulty == "" || req.NumQuestions == 0 {
		settings, err := s.settings.Current(ctx, session)
		if err != nil {
			return nil, err
		}
		if req.Difficulty == "" {
			req.Difficulty = settings.DifficultyLevel
		}
		if req.NumQuestions == 0 {
			req.NumQuestions = settings.QuestionCount
		}
	}

	interview := &models.Interview{
		ID:             uuid.New().String(),
		UserID:         session.UserID,
		JobDescription: req.JobDescription,
		Difficulty:     req.Difficulty,
		NumQuestions:   req.NumQuestions,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateInterview(ctx, interview); err != nil {
		return nil, app.Remote("create interview", err)
	}
	return interview, nil
}

// List returns the user's interviews, newest first
func (s *InterviewService) List(ctx context.Context, session *models.Session) ([]*models.Interview, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	interviews, err := s.store.ListInterviews(ctx, session.UserID)
	if err != nil {
		return nil, app.Remote("list interviews", err)
	}
	return interviews, nil
}

// Questions generates the question set for an interview, steering toward
// job description keywords the resume doesn't cover
func (s *InterviewService) Questions(ctx context.Context, session *models.Session, interviewID string) (*models.QuestionSet, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	interview, err := s.store.GetInterview(ctx, session.UserID, interviewID)
	if err != nil {
		return nil, app.Remote("fetch interview", err)
	}
	if interview == nil {
		return nil, fmt.Errorf("interview %s: %w", interviewID, app.ErrNotFound)
	}

	profile, err := s.profiles.FetchProfile(ctx, session)
	if err != nil {
		return nil, err
	}

	coverage := matcher.CalculateCoverage(interview.JobDescription, profile.Resume)
	focus := coverage.FocusAreas(maxFocusAreas)

	s.logger.Debug("generating questions",
		zap.String("interview_id", interview.ID),
		zap.Float64("match_score", coverage.Score),
		zap.Strings("focus_areas", focus),
	)

	questions, err := s.generator.GenerateQuestions(ctx, ai.QuestionRequest{
		JobDescription: interview.JobDescription,
		Resume:         profile.Resume,
		Difficulty:     interview.Difficulty,
		Count:          interview.NumQuestions,
		FocusAreas:     focus,
	})
	if err != nil {
		return nil, app.Remote("generate questions", err)
	}

	return &models.QuestionSet{
		InterviewID: interview.ID,
		Difficulty:  interview.Difficulty,
		Questions:   questions,
		FocusAreas:  focus,
		MatchScore:  coverage.Score,
	}, nil
}
