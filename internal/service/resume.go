package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/cache"
	"github.com/khrees2412/mockprep/internal/extract"
	"github.com/khrees2412/mockprep/internal/saga"
	"github.com/khrees2412/mockprep/internal/storage"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

// UploadFile is a resume upload candidate
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (f UploadFile) validationFile() validation.File {
	return validation.File{Name: f.Name, ContentType: f.ContentType, Size: f.Size}
}

// ResumeService manages the user's single uploaded resume
type ResumeService struct {
	store    ResumeStore
	blobs    storage.Store
	recorder *recorder
	mirror   *cache.Mirror[*models.Resume]
	logger   *zap.Logger
	maxSize  int64
	now      func() time.Time
}

func newResumeService(d Deps, rec *recorder) *ResumeService {
	return &ResumeService{
		store:    d.Resumes,
		blobs:    d.Blobs,
		recorder: rec,
		mirror:   cache.NewMirror(cloneResume),
		logger:   d.Logger,
		maxSize:  d.MaxResumeSize,
		now:      d.Now,
	}
}

func cloneResume(r *models.Resume) *models.Resume {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// resumePath builds {user_id}/{unix_millis}_{sanitized name}
func resumePath(userID, fileName string, at time.Time) string {
	return fmt.Sprintf("%s/%d_%s", userID, at.UnixMilli(), unsafeFileChars.ReplaceAllString(fileName, "_"))
}

// Fetch returns the user's resume, or nil when none has been uploaded
func (s *ResumeService) Fetch(ctx context.Context, session *models.Session) (*models.Resume, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	resume, err := s.store.GetResume(ctx, session.UserID)
	if err != nil {
		return nil, app.Remote("fetch resume", err)
	}
	s.mirror.Set(session.UserID, resume)
	return resume, nil
}

// Cached returns the mirrored resume without a remote call
func (s *ResumeService) Cached(userID string) (*models.Resume, bool) {
	return s.mirror.Get(userID)
}

// Upload stores the file and upserts the resume row. A previous upload's
// blob is left in place. report, if non-nil, receives simulated progress.
func (s *ResumeService) Upload(ctx context.Context, session *models.Session, file UploadFile, report ProgressFunc) (*models.Resume, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := validation.ResumeFile(file.validationFile(), s.maxSize); err != nil {
		return nil, err
	}

	p := startProgress(report)
	resume, err := s.upload(ctx, session.UserID, file)
	p.finish(err == nil)
	if err != nil {
		return nil, err
	}

	s.recorder.record(ctx, session.UserID, models.ActivityResumeUpload,
		"Uploaded resume: "+file.Name,
		map[string]any{"file_name": file.Name, "file_size": file.Size})
	s.mirror.Set(session.UserID, resume)
	return resume, nil
}

func (s *ResumeService) upload(ctx context.Context, userID string, file UploadFile) (*models.Resume, error) {
	now := s.now().UTC()
	path := resumePath(userID, file.Name, now)

	var resume *models.Resume
	err := saga.New("resume upload", s.logger,
		saga.Step{
			Name: "upload blob",
			Do: func(ctx context.Context) error {
				return s.blobs.Upload(ctx, path, file.Body, file.Size, storage.UploadOptions{
					ContentType:  file.ContentType,
					CacheControl: "3600",
					Overwrite:    false,
				})
			},
			Compensate: func(ctx context.Context) error {
				return s.blobs.Remove(ctx, path)
			},
		},
		saga.Step{
			Name: "upsert metadata",
			Do: func(ctx context.Context) error {
				var err error
				resume, err = s.store.UpsertResume(ctx, &models.Resume{
					UserID:     userID,
					FileName:   file.Name,
					FilePath:   path,
					FileSize:   file.Size,
					Status:     models.ResumeStatusActive,
					UploadDate: now,
				})
				return err
			},
		},
	).Run(ctx)
	if err != nil {
		return nil, app.Remote("upload resume", err)
	}
	return resume, nil
}

// Delete removes the blob best-effort, then the row
func (s *ResumeService) Delete(ctx context.Context, session *models.Session) error {
	if err := requireSession(session); err != nil {
		return err
	}

	resume, err := s.Fetch(ctx, session)
	if err != nil {
		return err
	}
	if resume == nil {
		return app.ErrNoResume
	}

	if err := s.blobs.Remove(ctx, resume.FilePath); err != nil {
		s.logger.Warn("failed to remove resume blob",
			zap.String("user_id", session.UserID),
			zap.String("path", resume.FilePath),
			zap.Error(err),
		)
	}

	if err := s.store.DeleteResume(ctx, session.UserID); err != nil {
		return app.Remote("delete resume", err)
	}

	s.recorder.record(ctx, session.UserID, models.ActivityResumeDelete,
		"Deleted resume: "+resume.FileName,
		map[string]any{"file_name": resume.FileName})
	s.mirror.Set(session.UserID, nil)
	return nil
}

// ExtractText downloads the stored resume and returns its plain text
func (s *ResumeService) ExtractText(ctx context.Context, session *models.Session) (string, error) {
	resume, err := s.Fetch(ctx, session)
	if err != nil {
		return "", err
	}
	if resume == nil {
		return "", fmt.Errorf("resume: %w", app.ErrNotFound)
	}

	data, err := s.blobs.Download(ctx, resume.FilePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", fmt.Errorf("resume file %s: %w", resume.FilePath, app.ErrNotFound)
	}
	if err != nil {
		return "", app.Remote("download resume", err)
	}

	mime := extract.MimeFromName(resume.FileName)
	text, err := extract.Text(mime, data)
	if errors.Is(err, extract.ErrUnsupported) {
		return "", fmt.Errorf("%s: %w: %w", resume.FileName, app.ErrInvalidArgument, err)
	}
	if err != nil {
		return "", fmt.Errorf("extract resume text: %w", err)
	}
	return text, nil
}
