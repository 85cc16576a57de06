package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show your activity history",
	Long:  "Lists activity newest first, one page at a time. Use --all to follow every page.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		activityType, _ := cmd.Flags().GetString("type")
		all, _ := cmd.Flags().GetBool("all")

		fmt.Println(titleStyle.Render("Activity History"))
		shown := 0
		for {
			result, err := svc.Activity.Query(cmd.Context(), session, validation.ActivityQuery{
				Page:         page,
				PerPage:      perPage,
				ActivityType: activityType,
			})
			if err != nil {
				return err
			}
			for _, a := range result.Items {
				printActivity(a)
			}
			shown += len(result.Items)

			if !result.HasMore {
				fmt.Println(mutedStyle.Render(fmt.Sprintf("\nShowing %d of %d entries", shown, result.Total)))
				return nil
			}
			if !all {
				fmt.Println(mutedStyle.Render(fmt.Sprintf("\nShowing %d of %d entries. Next page: --page %d", shown, result.Total, page+1)))
				return nil
			}
			page++
		}
	},
}

func printActivity(a *models.Activity) {
	fmt.Printf("%s  %s\n", activityLabel(a.ActivityType), mutedStyle.Render(relativeTime(a.CreatedAt)))
	fmt.Printf("  %s\n", a.Description)
}

var activityStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize your activity by type",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}

		feed := svc.Activity.Feed(session)
		for feed.HasMore() {
			if err := feed.LoadMore(cmd.Context()); err != nil {
				return err
			}
		}
		items := feed.Items()
		if len(items) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}

		stats := calculateStats(items, time.Now())

		fmt.Println(titleStyle.Render("Activity Statistics"))
		fmt.Printf("  Total entries: %d\n", feed.Total())
		fmt.Printf("  Last 30 days: %d\n", stats.Recent)
		fmt.Printf("  First activity: %s\n", absoluteTime(stats.First))

		fmt.Printf("\n%s\n", labelStyle.Render("Breakdown"))
		for _, tc := range stats.ByType {
			percentage := float64(tc.Count) / float64(stats.Total) * 100
			fmt.Printf("  %s: %d (%.1f%%)\n", activityLabel(tc.Type), tc.Count, percentage)
		}
		return nil
	},
}

// Stats summarizes the activity history
type Stats struct {
	Total  int
	Recent int
	First  time.Time
	ByType []TypeCount
}

type TypeCount struct {
	Type  string
	Count int
}

func calculateStats(items []*models.Activity, now time.Time) Stats {
	stats := Stats{Total: len(items)}
	counts := map[string]int{}

	for _, a := range items {
		counts[a.ActivityType]++
		if now.Sub(a.CreatedAt) < 30*24*time.Hour {
			stats.Recent++
		}
		if stats.First.IsZero() || a.CreatedAt.Before(stats.First) {
			stats.First = a.CreatedAt
		}
	}

	for t, c := range counts {
		stats.ByType = append(stats.ByType, TypeCount{Type: t, Count: c})
	}
	sort.Slice(stats.ByType, func(i, j int) bool {
		if stats.ByType[i].Count != stats.ByType[j].Count {
			return stats.ByType[i].Count > stats.ByType[j].Count
		}
		return stats.ByType[i].Type < stats.ByType[j].Type
	})
	return stats
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.AddCommand(activityStatsCmd)

	activityCmd.Flags().Int("page", 1, "Page to show, starting at 1")
	activityCmd.Flags().Int("per-page", 0, "Entries per page (defaults to activity_page_size)")
	activityCmd.Flags().String("type", "", "Only show one activity type")
	activityCmd.Flags().Bool("all", false, "Follow every page")
}
