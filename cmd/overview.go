package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show your dashboard: profile, settings, resume and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		ov, err := svc.Overview.Load(cmd.Context(), session)
		if err != nil {
			return err
		}

		printProfile(ov.Profile)
		printSettings(ov.Settings)
		if ov.Resume != nil {
			printResume(ov.Resume)
		} else {
			fmt.Println(titleStyle.Render("Your Resume"))
			fmt.Println("No resume uploaded. Upload one with 'mockprep resume upload <file>'")
		}

		fmt.Println(titleStyle.Render("Recent Activity"))
		if len(ov.Activity.Items) == 0 {
			fmt.Println("No activity yet.")
		}
		for _, a := range ov.Activity.Items {
			printActivity(a)
		}
		if ov.Activity.HasMore {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("\n%d more entries: mockprep activity --page 2", ov.Activity.Total-len(ov.Activity.Items))))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
