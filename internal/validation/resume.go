package validation

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/khrees2412/mockprep/internal/extract"
	"github.com/khrees2412/mockprep/pkg/models"
)

// ResumeTypes are the accepted resume MIME types
var ResumeTypes = []string{
	extract.MimePDF,
	extract.MimeDoc,
	extract.MimeDocx,
	extract.MimeText,
}

// File describes an upload candidate
type File struct {
	Name        string
	ContentType string
	Size        int64
}

// ResumeFile checks size, type and name length in that order.
// Only the first failure is reported.
func ResumeFile(f File, maxSize int64) error {
	var c collector
	switch {
	case f.Size > maxSize:
		c.add("file", fmt.Sprintf("File size must be less than %dMB",
			int64(math.Round(float64(maxSize)/(1024*1024)))))
	case !slices.Contains(ResumeTypes, f.ContentType):
		c.add("file", "File must be PDF, Word document, or plain text")
	case len(f.Name) > 255:
		c.add("file", "File name is too long")
	}
	return c.err()
}

// InterviewRequest validates a practice interview request. Zero difficulty
// and count are left for the caller to fill from job settings.
func InterviewRequest(in models.InterviewRequest) (models.InterviewRequest, error) {
	var c collector
	out := models.InterviewRequest{
		JobDescription: strings.TrimSpace(in.JobDescription),
		Difficulty:     strings.TrimSpace(in.Difficulty),
		NumQuestions:   in.NumQuestions,
	}
	if out.JobDescription == "" {
		c.add("job_description", "Job description is required")
	}
	if out.Difficulty != "" {
		if msg := difficultyMessage(out.Difficulty); msg != "" {
			c.add("difficulty", msg)
		}
	}
	if out.NumQuestions != 0 {
		if msg := countRangeMessage(float64(out.NumQuestions)); msg != "" {
			c.add("num_questions", msg)
		}
	}
	if err := c.err(); err != nil {
		return models.InterviewRequest{}, err
	}
	return out, nil
}

// ActivityQuery is a normalized activity history query
type ActivityQuery struct {
	Page         int    `json:"page" validate:"min=1"`
	PerPage      int    `json:"per_page" validate:"min=1,max=100"`
	ActivityType string `json:"activity_type" validate:"omitempty,oneof=resume_upload resume_delete settings_change account_created profile_update password_change"`
}

var activityMessages = messages{
	"page.min":            "Page must be at least 1",
	"per_page.min":        "Per page must be at least 1",
	"per_page.max":        "Per page must be at most 100",
	"activity_type.oneof": "Unknown activity type",
}

// Activity fills defaults (page 1, defaultPerPage) and checks the query
func Activity(q ActivityQuery, defaultPerPage int) (ActivityQuery, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = defaultPerPage
	}
	if err := check(q, activityMessages); err != nil {
		return ActivityQuery{}, err
	}
	return q, nil
}
