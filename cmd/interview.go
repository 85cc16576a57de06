package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/mockprep/internal/scraper"
	"github.com/khrees2412/mockprep/pkg/models"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start practice interviews and generate questions",
}

var startInterviewCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a practice interview for a job description",
	Long: `Records a practice interview and generates its questions. Difficulty and
question count default to your job settings.`,
	Example: `  mockprep interview start --job-file job.txt
  mockprep interview start --job-url https://boards.greenhouse.io/acme/jobs/123
  mockprep interview start --job "Senior Go engineer..." --difficulty difficult --count 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}

		job, _ := cmd.Flags().GetString("job")
		if jobFile, _ := cmd.Flags().GetString("job-file"); jobFile != "" {
			data, err := os.ReadFile(jobFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", jobFile, err)
			}
			job = string(data)
		}
		if jobURL, _ := cmd.Flags().GetString("job-url"); jobURL != "" {
			fmt.Println(mutedStyle.Render("Fetching job description from " + jobURL + "..."))
			text, err := scraper.FetchDescription(cmd.Context(), jobURL, logger)
			if err != nil {
				return err
			}
			job = text
		}
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")

		interview, err := svc.Interview.Create(cmd.Context(), session, models.InterviewRequest{
			JobDescription: job,
			Difficulty:     difficulty,
			NumQuestions:   count,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Interview:"), mutedStyle.Render(interview.ID))

		if noQuestions, _ := cmd.Flags().GetBool("no-questions"); noQuestions {
			return nil
		}
		return printQuestions(cmd, interview.ID)
	},
}

var listInterviewsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your practice interviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		interviews, err := svc.Interview.List(cmd.Context(), session)
		if err != nil {
			return err
		}
		if len(interviews) == 0 {
			fmt.Println("No interviews yet. Start one with 'mockprep interview start --job-file job.txt'")
			return nil
		}

		fmt.Println(titleStyle.Render("Your Interviews"))
		for i, iv := range interviews {
			fmt.Printf("\n%d. %s\n", i+1, truncate(strings.Join(strings.Fields(iv.JobDescription), " "), 70))
			fmt.Printf("   %s %s\n", labelStyle.Render("ID:"), mutedStyle.Render(iv.ID))
			fmt.Printf("   %s %s, %d questions\n", labelStyle.Render("Level:"), difficultyLabel(iv.Difficulty), iv.NumQuestions)
			fmt.Printf("   %s %s\n", labelStyle.Render("Created:"), relativeTime(iv.CreatedAt))
		}
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions <interview-id>",
	Short: "Generate the questions for an interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printQuestions(cmd, args[0])
	},
}

func printQuestions(cmd *cobra.Command, interviewID string) error {
	svc, session, err := signedIn(cmd)
	if err != nil {
		return err
	}

	fmt.Println(mutedStyle.Render("Generating questions..."))
	set, err := svc.Interview.Questions(cmd.Context(), session, interviewID)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Interview Questions (%s)", difficultyLabel(set.Difficulty))))
	fmt.Printf("%s %.0f%%\n", labelStyle.Render("Resume match:"), set.MatchScore*100)
	if len(set.FocusAreas) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Focus areas:"), valueStyle.Render(strings.Join(set.FocusAreas, ", ")))
	}
	fmt.Println()
	for i, q := range set.Questions {
		fmt.Printf("%2d. %s\n", i+1, q)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(interviewCmd)
	interviewCmd.AddCommand(startInterviewCmd)
	interviewCmd.AddCommand(listInterviewsCmd)
	interviewCmd.AddCommand(questionsCmd)

	startInterviewCmd.Flags().String("job", "", "Job description text")
	startInterviewCmd.Flags().String("job-file", "", "Read the job description from a file")
	startInterviewCmd.Flags().String("job-url", "", "Fetch the job description from a posting URL (needs Chrome)")
	startInterviewCmd.Flags().String("difficulty", "", "easy, medium or difficult (defaults to settings)")
	startInterviewCmd.Flags().Int("count", 0, "Number of questions (defaults to settings)")
	startInterviewCmd.Flags().Bool("no-questions", false, "Only record the interview")
}
