package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show intervention statistics",
	Long: `Show how often monitored apps were opened, how often you went ahead,
and which intentions you declared.

Examples:
  pausa stats                  # This week's stats
  pausa stats --period today   # Today's stats
  pausa stats --period all     # All-time stats`,
	RunE: runStats,
}

// Flags
var (
	statsPeriod string
	statsApps   int
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period: today, week, month, all")
	statsCmd.Flags().IntVar(&statsApps, "apps", 5, "Number of apps to list (0 for all)")
}

func runStats(cmd *cobra.Command, args []string) error {
	if !util.ValidPeriod(statsPeriod) {
		return fmt.Errorf("invalid period %q (use today, week, month or all)", statsPeriod)
	}

	ctx := context.Background()

	app, err := NewAppContext(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	since := domain.FormatTimestamp(util.StartOfPeriod(statsPeriod, time.Now()))

	agg, err := app.Stats.GetAggregate(ctx, since)
	if err != nil {
		return err
	}
	intentions, err := app.Stats.GetIntentionBreakdown(ctx, since)
	if err != nil {
		return err
	}
	apps, err := app.Stats.GetAppBreakdown(ctx, since, statsApps)
	if err != nil {
		return err
	}

	printStats(app, agg, intentions, apps)
	return nil
}

func periodLabel(period string) string {
	switch period {
	case "today":
		return "Today"
	case "week":
		return "This week"
	case "month":
		return "This month"
	}
	return "All time"
}

func printStats(app *AppContext, stats *domain.InterventionStats, intentions []domain.IntentionStats, apps []domain.AppStats) {
	derived := stats.ComputeDerived()

	fmt.Println()
	fmt.Printf("  pausa Stats\n")
	fmt.Printf("  =====================\n")
	fmt.Println()

	fmt.Printf("  Period:            %s\n", periodLabel(statsPeriod))
	fmt.Println()

	fmt.Printf("  Sessions\n")
	fmt.Printf("  --------\n")
	fmt.Printf("  Total:             %d\n", stats.SessionCount)
	fmt.Printf("  Opened app:        %d (%s)\n", stats.ProceededCount, util.FormatPercent(derived.ProceedRate))
	fmt.Printf("  Dismissed:         %d\n", stats.DismissedCount)
	fmt.Printf("  Time waited:       %s\n", util.FormatSeconds(stats.TotalWaitSeconds))
	fmt.Printf("  Average wait:      %s\n", util.FormatSeconds(int64(derived.AvgWaitSeconds+0.5)))
	fmt.Printf("  Highest count:     %d\n", stats.MaxOpenCount)
	fmt.Println()

	if len(intentions) > 0 {
		fmt.Printf("  Intentions\n")
		fmt.Printf("  ----------\n")
		for _, is := range intentions {
			label := app.Translator.T("intention." + string(is.IntentionID))
			fmt.Printf("  %-28s %4d  %s opened\n", label, is.Count, util.FormatPercent(is.ProceedRate()))
		}
		fmt.Println()
	}

	if len(apps) > 0 {
		fmt.Printf("  Apps\n")
		fmt.Printf("  ----\n")
		for _, as := range apps {
			name := as.AppPackage
			if name == "" {
				name = "-"
			}
			fmt.Printf("  %-28s %4d  %d opened\n", name, as.SessionCount, as.ProceededCount)
		}
		fmt.Println()
	}
}
