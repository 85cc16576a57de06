package models

import "time"

// Difficulty levels accepted for job settings and interviews
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Question count bounds and defaults for practice interviews
const (
	MinQuestionCount     = 6
	MaxQuestionCount     = 15
	DefaultQuestionCount = 10
	DefaultDifficulty    = DifficultyMedium
)

// Resume statuses
const (
	ResumeStatusActive     = "active"
	ResumeStatusProcessing = "processing"
	ResumeStatusError      = "error"
)

// Activity types written to the activity history
const (
	ActivityResumeUpload   = "resume_upload"
	ActivityResumeDelete   = "resume_delete"
	ActivitySettingsChange = "settings_change"
	ActivityAccountCreated = "account_created"
	ActivityProfileUpdate  = "profile_update"
	ActivityPasswordChange = "password_change"
)

// ActivityTypes lists every known activity type
var ActivityTypes = []string{
	ActivityResumeUpload,
	ActivityResumeDelete,
	ActivitySettingsChange,
	ActivityAccountCreated,
	ActivityProfileUpdate,
	ActivityPasswordChange,
}

// Profile represents the user's identity record
type Profile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Resume        string    `json:"resume,omitempty"`          // plain-text resume
	ResumeFileURL string    `json:"resume_file_url,omitempty"` // page-level upload
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Resume is the metadata row for the user's uploaded resume file
type Resume struct {
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	Status     string    `json:"status"` // active, processing, error
	UploadDate time.Time `json:"upload_date"`
}

// Preferences holds optional job preferences attached to settings
type Preferences struct {
	JobTypes   []string `json:"job_types,omitempty"`
	Industries []string `json:"industries,omitempty"`
}

// JobSettings controls how practice interviews are generated
type JobSettings struct {
	UserID          string      `json:"user_id"`
	DifficultyLevel string      `json:"difficulty_level"`
	QuestionCount   int         `json:"question_count"`
	Preferences     Preferences `json:"preferences"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// SettingsPatch is a partial job settings update; nil fields are untouched
type SettingsPatch struct {
	DifficultyLevel *string      `json:"difficulty_level,omitempty"`
	QuestionCount   *int         `json:"question_count,omitempty"`
	Preferences     *Preferences `json:"preferences,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p SettingsPatch) Empty() bool {
	return p.DifficultyLevel == nil && p.QuestionCount == nil && p.Preferences == nil
}

// Apply returns a copy of s with the patch merged in
func (p SettingsPatch) Apply(s JobSettings) JobSettings {
	if p.DifficultyLevel != nil {
		s.DifficultyLevel = *p.DifficultyLevel
	}
	if p.QuestionCount != nil {
		s.QuestionCount = *p.QuestionCount
	}
	if p.Preferences != nil {
		s.Preferences = *p.Preferences
	}
	return s
}

// Interview is a recorded request for a practice session
type Interview struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	JobDescription string    `json:"job_description"`
	Difficulty     string    `json:"difficulty"`
	NumQuestions   int       `json:"num_questions"`
	CreatedAt      time.Time `json:"created_at"`
}

// InterviewRequest is the input for starting a practice interview.
// Zero Difficulty/NumQuestions fall back to the user's job settings.
type InterviewRequest struct {
	JobDescription string `json:"job_description"`
	Difficulty     string `json:"difficulty"`
	NumQuestions   int    `json:"num_questions"`
}

// QuestionSet is the generated question list for an interview
type QuestionSet struct {
	InterviewID string   `json:"interview_id"`
	Difficulty  string   `json:"difficulty"`
	Questions   []string `json:"questions"`
	FocusAreas  []string `json:"focus_areas"`
	MatchScore  float64  `json:"match_score"`
}

// Activity is one entry of the append-only activity history
type Activity struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	Description  string         `json:"description"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ActivityPage is one offset page of activity, newest first
type ActivityPage struct {
	Items   []*Activity `json:"items"`
	Page    int         `json:"page"`
	Total   int         `json:"total"`
	HasMore bool        `json:"has_more"`
}

// Session identifies the signed-in user for every service call
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Overview is the dashboard landing view
type Overview struct {
	Profile  *Profile      `json:"profile"`
	Settings *JobSettings  `json:"settings"`
	Resume   *Resume       `json:"resume"`
	Activity *ActivityPage `json:"activity"`
}
