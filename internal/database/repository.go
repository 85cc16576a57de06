package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/khrees2412/mockprep/pkg/models"
)

// Profile operations

func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT id, name, email, resume, resume_file_url, created_at, updated_at
			  FROM profiles WHERE id = $1`
	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email, &p.Resume,
		&p.ResumeFileURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile writes name and email and returns the stored row
func (s *Store) UpdateProfile(ctx context.Context, id, name, email string, now time.Time) (*models.Profile, error) {
	query := `UPDATE profiles SET name = $1, email = $2, updated_at = $3 WHERE id = $4`
	if err := s.execOne(ctx, query, name, email, now, id); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

func (s *Store) UpdateProfileEmail(ctx context.Context, id, email string, now time.Time) error {
	query := `UPDATE profiles SET email = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, email, now, id)
}

func (s *Store) UpdateProfileResume(ctx context.Context, id, text string, now time.Time) error {
	query := `UPDATE profiles SET resume = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, text, now, id)
}

func (s *Store) UpdateProfileResumeFileURL(ctx context.Context, id, url string, now time.Time) error {
	query := `UPDATE profiles SET resume_file_url = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, url, now, id)
}

// Resume operations

func (s *Store) GetResume(ctx context.Context, userID string) (*models.Resume, error) {
	query := `SELECT user_id, file_name, file_path, file_size, status, upload_date
			  FROM resumes WHERE user_id = $1`
	r := &models.Resume{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&r.UserID, &r.FileName, &r.FilePath,
		&r.FileSize, &r.Status, &r.UploadDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpsertResume inserts or replaces the user's single resume row
func (s *Store) UpsertResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	query := `INSERT INTO resumes (user_id, file_name, file_path, file_size, status, upload_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_id) DO UPDATE SET
				file_name = excluded.file_name,
				file_path = excluded.file_path,
				file_size = excluded.file_size,
				status = excluded.status,
				upload_date = excluded.upload_date`
	_, err := s.db.ExecContext(ctx, query, r.UserID, r.FileName, r.FilePath, r.FileSize,
		r.Status, r.UploadDate)
	if err != nil {
		return nil, err
	}
	return s.GetResume(ctx, r.UserID)
}

func (s *Store) DeleteResume(ctx context.Context, userID string) error {
	query := `DELETE FROM resumes WHERE user_id = $1`
	_, err := s.db.ExecContext(ctx, query, userID)
	return err
}

// Job settings operations

func (s *Store) GetJobSettings(ctx context.Context, userID string) (*models.JobSettings, error) {
	query := `SELECT user_id, difficulty_level, question_count, preferences, updated_at
			  FROM job_settings WHERE user_id = $1`
	js := &models.JobSettings{}
	var prefs string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&js.UserID, &js.DifficultyLevel,
		&js.QuestionCount, &prefs, &js.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(prefs, &js.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return js, nil
}

func (s *Store) InsertJobSettings(ctx context.Context, js *models.JobSettings) (*models.JobSettings, error) {
	prefs, err := json.Marshal(js.Preferences)
	if err != nil {
		return nil, err
	}
	query := `INSERT INTO job_settings (user_id, difficulty_level, question_count, preferences, updated_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err = s.db.ExecContext(ctx, query, js.UserID, js.DifficultyLevel, js.QuestionCount,
		string(prefs), js.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s.GetJobSettings(ctx, js.UserID)
}

// UpdateJobSettings applies the non-nil fields of patch and returns the stored row
func (s *Store) UpdateJobSettings(ctx context.Context, userID string, patch models.SettingsPatch, now time.Time) (*models.JobSettings, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.DifficultyLevel != nil {
		add("difficulty_level", *patch.DifficultyLevel)
	}
	if patch.QuestionCount != nil {
		add("question_count", *patch.QuestionCount)
	}
	if patch.Preferences != nil {
		prefs, err := json.Marshal(patch.Preferences)
		if err != nil {
			return nil, err
		}
		add("preferences", string(prefs))
	}
	add("updated_at", now)
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE job_settings SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), len(args))
	if err := s.execOne(ctx, query, args...); err != nil {
		return nil, err
	}
	return s.GetJobSettings(ctx, userID)
}

// Interview operations

func (s *Store) CreateInterview(ctx context.Context, i *models.Interview) error {
	query := `INSERT INTO interviews (id, user_id, job_description, difficulty, num_questions, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query, i.ID, i.UserID, i.JobDescription, i.Difficulty,
		i.NumQuestions, i.CreatedAt)
	return err
}

func (s *Store) GetInterview(ctx context.Context, userID, id string) (*models.Interview, error) {
	query := `SELECT id, user_id, job_description, difficulty, num_questions, created_at
			  FROM interviews WHERE user_id = $1 AND id = $2`
	i := &models.Interview{}
	err := s.db.QueryRowContext(ctx, query, userID, id).Scan(&i.ID, &i.UserID, &i.JobDescription,
		&i.Difficulty, &i.NumQuestions, &i.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Store) ListInterviews(ctx context.Context, userID string) ([]*models.Interview, error) {
	query := `SELECT id, user_id, job_description, difficulty, num_questions, created_at
			  FROM interviews WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := []*models.Interview{}
	for rows.Next() {
		i := &models.Interview{}
		err := rows.Scan(&i.ID, &i.UserID, &i.JobDescription, &i.Difficulty,
			&i.NumQuestions, &i.CreatedAt)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, i)
	}
	return interviews, rows.Err()
}

// execOne runs a statement that must touch exactly one row
func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func decodeJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}
