package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/khrees2412/mockprep/pkg/models"
)

// OverviewService loads the dashboard landing view
type OverviewService struct {
	profiles *ProfileService
	settings *SettingsService
	resumes  *ResumeService
	activity *ActivityService
}

// Load fetches profile, settings, resume and the first activity page concurrently
func (s *OverviewService) Load(ctx context.Context, session *models.Session) (*models.Overview, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	var ov models.Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.FetchProfile(ctx, session)
		ov.Profile = p
		return err
	})
	g.Go(func() error {
		js, err := s.settings.Fetch(ctx, session)
		ov.Settings = js
		return err
	})
	g.Go(func() error {
		r, err := s.resumes.Fetch(ctx, session)
		ov.Resume = r
		return err
	})
	g.Go(func() error {
		page, err := s.activity.Fetch(ctx, session, 0)
		ov.Activity = page
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}
