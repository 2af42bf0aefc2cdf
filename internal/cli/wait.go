package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/intervention"
)

var waitCmd = &cobra.Command{
	Use:   "wait [count]",
	Short: "Show the wait for an open count",
	Long: `Show how long the waiting screen lasts.

Without arguments, prints the whole wait sequence. With a count, prints the
wait after that many earlier opens today. With --next, reads today's counter
and prints the wait the next open would get, without counting an open.

Examples:
  pausa wait          # 5 8 13 21 34 55 89
  pausa wait 3        # 21
  pausa wait --next   # wait for the next open today`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWait,
}

var waitNext bool

func init() {
	rootCmd.AddCommand(waitCmd)

	waitCmd.Flags().BoolVar(&waitNext, "next", false, "Show the wait for the next open today")
}

func runWait(cmd *cobra.Command, args []string) error {
	if waitNext {
		return runWaitNext()
	}

	if len(args) == 0 {
		seq := domain.WaitSequence()
		parts := make([]string, len(seq))
		for i, s := range seq {
			parts[i] = strconv.Itoa(s)
		}
		fmt.Println(strings.Join(parts, " "))
		return nil
	}

	count, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid count: %s", args[0])
	}
	fmt.Println(domain.WaitSeconds(count))
	return nil
}

func runWaitNext() error {
	ctx := context.Background()

	app, err := NewAppContext(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	svc := intervention.NewService(app.Counter, app.Outcomes, app.Logger, intervention.Config{
		WarningThreshold: app.Config.Friction.WarningThreshold,
	})
	st, err := svc.Preview(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Opens today:  %d\n", st.OpenCount)
	fmt.Printf("Next wait:    %ds\n", st.WaitSeconds)
	if st.HighUsageWarning() {
		fmt.Printf("High usage:   yes (threshold %d)\n", st.WarningThreshold)
	}
	return nil
}
