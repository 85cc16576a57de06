package cmd

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/khrees2412/mockprep/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

var difficultyColors = map[string]lipgloss.Color{
	models.DifficultyEasy:      lipgloss.Color("10"),
	models.DifficultyMedium:    lipgloss.Color("11"),
	models.DifficultyDifficult: lipgloss.Color("9"),
}

var activityLabels = map[string]string{
	models.ActivityResumeUpload:   "Resume Uploaded",
	models.ActivityResumeDelete:   "Resume Deleted",
	models.ActivitySettingsChange: "Settings Updated",
	models.ActivityAccountCreated: "Account Created",
	models.ActivityProfileUpdate:  "Profile Updated",
	models.ActivityPasswordChange: "Password Changed",
}

var activityColors = map[string]lipgloss.Color{
	models.ActivityResumeUpload:   lipgloss.Color("12"),
	models.ActivityResumeDelete:   lipgloss.Color("9"),
	models.ActivitySettingsChange: lipgloss.Color("13"),
	models.ActivityAccountCreated: lipgloss.Color("10"),
	models.ActivityProfileUpdate:  lipgloss.Color("14"),
	models.ActivityPasswordChange: lipgloss.Color("208"),
}

var resumeStatusLabels = map[string]string{
	models.ResumeStatusActive:     "Active",
	models.ResumeStatusProcessing: "Processing",
	models.ResumeStatusError:      "Error",
}

// formatFileSize renders bytes in 1024 steps, e.g. "1.5 KB"
func formatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizes[i]
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown time"
	}
	return humanize.Time(t)
}

func absoluteTime(t time.Time) string {
	return t.Local().Format("Jan 02, 2006 at 3:04 PM")
}

func difficultyLabel(level string) string {
	label := level
	if level != "" {
		label = strings.ToUpper(level[:1]) + level[1:]
	}
	if c, ok := difficultyColors[level]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true).Render(label)
	}
	return label
}

func activityLabel(activityType string) string {
	label, ok := activityLabels[activityType]
	if !ok {
		return "Unknown Activity"
	}
	return lipgloss.NewStyle().Foreground(activityColors[activityType]).Render(label)
}

func resumeStatusLabel(status string) string {
	if l, ok := resumeStatusLabels[status]; ok {
		return l
	}
	return status
}

func truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max-3]) + "..."
}

// initials returns up to two upper-case initials of name
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(word)[:1])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
