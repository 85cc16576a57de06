package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/khrees2412/mockprep/pkg/models"
)

// User operations

// CreateAccount inserts the credential row and its profile in one transaction
func (s *Store) CreateAccount(ctx context.Context, u *User, p *models.Profile) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (id, name, email, resume, resume_file_url, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.Name, p.Email, p.Resume, p.ResumeFileURL, p.CreatedAt, p.UpdatedAt)
		return err
	})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) UpdateUserEmail(ctx context.Context, id, email string, now time.Time) error {
	query := `UPDATE users SET email = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, email, now, id)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, hash string, now time.Time) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, hash, now, id)
}

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Session operations

func (s *Store) CreateSession(ctx context.Context, sess *Session) error {
	query := `INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`
	_, err := s.db.ExecContext(ctx, query, sess.Token, sess.UserID, sess.ExpiresAt, sess.CreatedAt)
	return err
}

func (s *Store) GetSession(ctx context.Context, token string) (*Session, error) {
	query := `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1`
	sess := &Session{}
	err := s.db.QueryRowContext(ctx, query, token).Scan(&sess.Token, &sess.UserID,
		&sess.ExpiresAt, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteExpiredSessions removes sessions that expired before now
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
