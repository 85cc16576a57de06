package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/khrees2412/mockprep/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

// createTestDB creates a temporary test database
func createTestDB(t *testing.T) *Store {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := RunMigrations(db, DriverSQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return New(db, DriverSQLite)
}

// createTestAccount inserts a user with a matching profile
func createTestAccount(t *testing.T, s *Store, id, email string) {
	now := time.Now().UTC()
	u := &User{ID: id, Email: email, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	p := &models.Profile{ID: id, Name: "Test User", Email: email, CreatedAt: now, UpdatedAt: now}
	if err := s.CreateAccount(context.Background(), u, p); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
}

func TestCreateAccount(t *testing.T) {
	s := createTestDB(t)
	ctx := context.Background()
	createTestAccount(t, s, "u1", "ada@example.com")

	p, err := s.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if p == nil || p.Email != "ada@example.com" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	// Duplicate email must fail and leave no second profile behind
	now := time.Now().UTC()
	u := &User{ID: "u2", Email: "ada@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	p2 := &models.Profile{ID: "u2", Name: "Other", Email: "ada@example.com", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateAccount(ctx, u, p2); err == nil {
		t.Fatal("should have failed to create duplicate email")
	}
	if got, _ := s.GetProfile(ctx, "u2"); got != nil {
		t.Error("profile should not exist after failed transaction")
	}
}

func TestGetMissingRowsReturnNil(t *testing.T) {
	s := createTestDB(t)
	ctx := context.Background()

	if p, err := s.GetProfile(ctx, "nobody"); err != nil || p != nil {
		t.Errorf("GetProfile = %v, %v; want nil, nil", p, err)
	}
	if r, err := s.GetResume(ctx, "nobody"); err != nil || r != nil {
		t.Errorf("GetResume = %v, %v; want nil, nil", r, err)
	}
	if js, err := s.GetJobSettings(ctx, "nobody"); err != nil || js != nil {
		t.Errorf("GetJobSettings = %v, %v; want nil, nil", js, err)
	}
	if u, err := s.GetUserByEmail(ctx, "nobody@example.com"); err != nil || u != nil {
		t.Errorf("GetUserByEmail = %v, %v; want nil, nil", u, err)
	}
}

func TestUpsertResumeReplacesRow(t *testing.T) {
	s := createTestDB(t)
	ctx := context.Background()
	createTestAccount(t, s, "u1", "ada@example.com")

	first := &models.Resume{
		UserID:     "u1",
		FileName:   "cv.pdf",
		FilePath:   "u1/1_cv.pdf",
		FileSize:   1024,
		Status:     models.ResumeStatusActive,
		UploadDate: time.Now().UTC(),
	}
	if _, err := s.UpsertResume(ctx, first); err != nil {
		t.Fatalf("failed to upsert resume: %v", err)
	}

	second := *first
	second.FileName = "cv2.pdf"
	second.FilePath = "u1/2_cv2.pdf"
	second.FileSize = 2048
	got, err := s.UpsertResume(ctx, &second)
	if err != nil {
		t.Fatalf("failed to upsert resume: %v", err)
	}
	if got.FilePath != "u1/2_cv2.pdf" || got.FileSize != 2048 {
		t.Errorf("unexpected resume after upsert: %+v", got)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM resumes WHERE user_id = $1`, "u1").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected one resume row, got %d", count)
	}

	if err := s.DeleteResume(ctx, "u1"); err != nil {
		t.Fatalf("failed to delete resume: %v", err)
	}
	if r, _ := s.GetResume(ctx, "u1"); r != nil {
		t.Error("resume should be gone")
	}
}

func TestResumeStatusConstraint(t *testing.T) {
	s := createTestDB(t)
	createTestAccount(t, s, "u1", "ada@example.com")

	_, err := s.UpsertResume(context.Background(), &models.Resume{
		UserID: "u1", FileName: "a.pdf", FilePath: "u1/a.pdf", Status: "archived", UploadDate: time.Now().UTC(),
	})
	if err == nil {
		t.Error("should have rejected unknown status")
	}
}

func TestJobSettings(t *testing.T) {
	s := createTestDB(t)
	ctx := context.Background()
	createTestAccount(t, s, "u1", "ada@example.com")

	inserted, err := s.InsertJobSettings(ctx, &models.JobSettings{
		UserID:          "u1",
		DifficultyLevel: models.DefaultDifficulty,
		QuestionCount:   models.DefaultQuestionCount,
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to insert settings: %v", err)
	}
	if inserted.DifficultyLevel != "medium" || inserted.QuestionCount != 10 {
		t.Fatalf("unexpected defaults: %+v", inserted)
	}

	count := 12
	prefs := &models.Preferences{JobTypes: []string{"backend"}}
	updated, err := s.UpdateJobSettings(ctx, "u1", models.SettingsPatch{
		QuestionCount: &count,
		Preferences:   prefs,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}
	if updated.QuestionCount != 12 || updated.DifficultyLevel != "medium" {
		t.Errorf("unexpected settings: %+v", updated)
	}
	if len(updated.Preferences.JobTypes) != 1 || updated.Preferences.JobTypes[0] != "backend" {
		t.Errorf("preferences not stored: %+v", updated.Preferences)
	}

	tests := []struct {
		name  string
		patch models.SettingsPatch
	}{
		{"count too high", models.SettingsPatch{QuestionCount: intPtr(16)}},
		{"count too low", models.SettingsPatch{QuestionCount: intPtr(5)}},
		{"bad difficulty", models.SettingsPatch{DifficultyLevel: strPtr("extreme")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.UpdateJobSettings(ctx, "u1", tt.patch, time.Now().UTC()); err == nil {
				t.Error("expected check constraint failure")
			}
		})
	}

	if _, err := s.UpdateJobSettings(ctx, "nobody", models.SettingsPatch{QuestionCount: &count}, time.Now().UTC()); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows for missing row, got %v", err)
	}
}

func TestListActivityPagination(t *testing.T) {
	s := createTestDB(t)
	ctx := context.Background()
	createTestAccount(t, s, "u1", "ada@example.com")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		activityType := models.ActivitySettingsChange
		if i%5 == 0 {
			activityType = models.ActivityResumeUpload
		}
		err := s.LogActivity(ctx, &models.Activity{
			ID:           fmt.Sprintf("a%02d", i),
			UserID:       "u1",
			ActivityType: activityType,
			Description:  fmt.Sprintf("entry %d", i),
			Metadata:     map[string]any{"n": i},
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("failed to log activity: %v", err)
		}
	}

	items, total, err := s.ListActivity(ctx, "u1", 0, 20, "")
	if err != nil {
		t.Fatalf("failed to list activity: %v", err)
	}
	if total != 25 || len(items) != 20 {
		t.Fatalf("got %d items of %d, want 20 of 25", len(items), total)
	}
	if items[0].ID != "a24" {
		t.Errorf("expected newest first, got %s", items[0].ID)
	}
	if items[0].Metadata["n"] != float64(24) {
		t.Errorf("metadata not decoded: %v", items[0].Metadata)
	}

	items, _, err = s.ListActivity(ctx, "u1", 20, 20, "")
	if err != nil {
		t.Fatalf("failed to list activity: %v", err)
	}
	if len(items) != 5 || items[4].ID != "a00" {
		t.Errorf("unexpected second page: %d items", len(items))
	}

	items, total, err = s.ListActivity(ctx, "u1", 0, 20, models.ActivityResumeUpload)
	if err != nil {
		t.Fatalf("failed to list activity: %v", err)
	}
	if total != 5 || len(items) != 5 {
		t.Errorf("filter returned %d of %d, want 5 of 5", len(items), total)
	}
}

func TestSessions(t *testing.T) {
	s := createTestDB(t)
	ctx := context.Background()
	createTestAccount(t, s, "u1", "ada@example.com")

	now := time.Now().UTC()
	live := &Session{Token: "live", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	stale := &Session{Token: "stale", UserID: "u1", ExpiresAt: now.Add(-time.Hour), CreatedAt: now}
	for _, sess := range []*Session{live, stale} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
	}

	n, err := s.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("failed to purge sessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged session, got %d", n)
	}

	got, err := s.GetSession(ctx, "live")
	if err != nil || got == nil || got.UserID != "u1" {
		t.Errorf("GetSession = %+v, %v", got, err)
	}

	if err := s.DeleteSession(ctx, "live"); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}
	if got, _ := s.GetSession(ctx, "live"); got != nil {
		t.Error("session should be gone")
	}
}

func TestInterviewsNewestFirst(t *testing.T) {
	s := createTestDB(t)
	ctx := context.Background()
	createTestAccount(t, s, "u1", "ada@example.com")

	base := time.Now().UTC()
	for i, id := range []string{"i1", "i2", "i3"} {
		err := s.CreateInterview(ctx, &models.Interview{
			ID:             id,
			UserID:         "u1",
			JobDescription: "Go engineer",
			Difficulty:     models.DifficultyMedium,
			NumQuestions:   10,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("failed to create interview: %v", err)
		}
	}

	list, err := s.ListInterviews(ctx, "u1")
	if err != nil {
		t.Fatalf("failed to list interviews: %v", err)
	}
	if len(list) != 3 || list[0].ID != "i3" {
		t.Errorf("unexpected order: %v", list)
	}

	if i, _ := s.GetInterview(ctx, "other", "i1"); i != nil {
		t.Error("interview must be scoped to its owner")
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
