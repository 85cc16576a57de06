package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/mockprep/pkg/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and update job settings",
	Long:  "Difficulty, question count and preferences used when starting an interview",
}

var showSettingsCmd = &cobra.Command{
	Use:   "show",
	Short: "Display your job settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		settings, err := svc.Settings.Fetch(cmd.Context(), session)
		if err != nil {
			return err
		}
		printSettings(settings)
		return nil
	},
}

func printSettings(s *models.JobSettings) {
	fmt.Println(titleStyle.Render("Job Settings"))
	fmt.Printf("%s %s\n", labelStyle.Render("Difficulty:"), difficultyLabel(s.DifficultyLevel))
	fmt.Printf("%s %s\n", labelStyle.Render("Questions:"), valueStyle.Render(fmt.Sprint(s.QuestionCount)))
	if len(s.Preferences.JobTypes) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Job types:"), valueStyle.Render(strings.Join(s.Preferences.JobTypes, ", ")))
	}
	if len(s.Preferences.Industries) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Industries:"), valueStyle.Render(strings.Join(s.Preferences.Industries, ", ")))
	}
	fmt.Printf("%s %s\n", labelStyle.Render("Updated:"), mutedStyle.Render(relativeTime(s.UpdatedAt)))
}

var setSettingsCmd = &cobra.Command{
	Use:   "set",
	Short: "Update job settings",
	Example: `  mockprep settings set --difficulty difficult
  mockprep settings set --count 12
  mockprep settings set --job-types full-time,contract --industries fintech`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}

		// Flags go through the same loose-input validation as the API
		raw := map[string]any{}
		if cmd.Flags().Changed("difficulty") {
			raw["difficulty_level"], _ = cmd.Flags().GetString("difficulty")
		}
		if cmd.Flags().Changed("count") {
			raw["question_count"], _ = cmd.Flags().GetString("count")
		}
		if cmd.Flags().Changed("job-types") || cmd.Flags().Changed("industries") {
			current, err := svc.Settings.Fetch(cmd.Context(), session)
			if err != nil {
				return err
			}
			prefs := current.Preferences
			if cmd.Flags().Changed("job-types") {
				prefs.JobTypes, _ = cmd.Flags().GetStringSlice("job-types")
			}
			if cmd.Flags().Changed("industries") {
				prefs.Industries, _ = cmd.Flags().GetStringSlice("industries")
			}
			raw["preferences"] = prefs
		}
		if len(raw) == 0 {
			return fmt.Errorf("nothing to update: pass --difficulty, --count, --job-types or --industries")
		}

		settings, err := svc.Settings.UpdateRaw(cmd.Context(), session, raw)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Settings updated"))
		printSettings(settings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(showSettingsCmd)
	settingsCmd.AddCommand(setSettingsCmd)

	setSettingsCmd.Flags().String("difficulty", "", "easy, medium or difficult")
	setSettingsCmd.Flags().String("count", "", "Questions per interview (6-15)")
	setSettingsCmd.Flags().StringSlice("job-types", nil, "Preferred job types")
	setSettingsCmd.Flags().StringSlice("industries", nil, "Preferred industries")
}
