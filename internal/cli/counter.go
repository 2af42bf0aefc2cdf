package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Show or reset today's open counter",
	Long: `Show how many times monitored apps were opened today.

A counter last touched on an earlier day reads as zero; the stored value is
only reset by the next intervention.

Examples:
  pausa counter           # Show today's count
  pausa counter --reset   # Start today over`,
	RunE: runCounter,
}

var counterReset bool

func init() {
	rootCmd.AddCommand(counterCmd)

	counterCmd.Flags().BoolVar(&counterReset, "reset", false, "Clear the counter and its last open date")
}

func runCounter(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx, true)
	if err != nil {
		return err
	}
	defer func() {
		app.Sync()
		_ = app.Close()
	}()

	if counterReset {
		if err := app.Counter.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("Counter reset")
		return nil
	}

	c, err := app.Counter.Get(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	count := c.CountAt(now)
	last := "never"
	if c.LastOpenDate != nil {
		last = c.LastOpenDate.In(now.Location()).Format("2006-01-02 15:04:05")
	}

	fmt.Printf("Opens today:  %d\n", count)
	fmt.Printf("Last open:    %s\n", last)
	fmt.Printf("Next wait:    %ds\n", domain.WaitSecondsForCount(count))
	return nil
}
