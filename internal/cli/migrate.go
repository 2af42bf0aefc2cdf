package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down N|status|VERSION]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  pausa migrate          # Run all pending migrations
  pausa migrate status   # List migrations and whether they are applied
  pausa migrate down 1   # Roll back the last migration
  pausa migrate 0        # Rollback all migrations`,
	Args: cobra.MaximumNArgs(2),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	m, err := migrate.New(app.SQL(), os.Stdout)
	if err != nil {
		return err
	}

	migrateErr := dispatchMigrate(ctx, m, args)

	// Sync schema changes to remote
	app.Sync()

	return migrateErr
}

func dispatchMigrate(ctx context.Context, m *migrate.Migrator, args []string) error {
	if len(args) == 0 || args[0] == "up" {
		return m.Up(ctx)
	}

	switch args[0] {
	case "status":
		return printMigrateStatus(ctx, m)
	case "down":
		steps := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid step count: %s", args[1])
			}
			steps = n
		}
		return m.Down(ctx, steps)
	}

	if len(args) > 1 {
		return fmt.Errorf("unexpected argument: %s", args[1])
	}
	target, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version number: %s", args[0])
	}

	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Current version: %d\n", current)
	return m.To(ctx, target)
}

func printMigrateStatus(ctx context.Context, m *migrate.Migrator) error {
	statuses, err := m.Status(ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		mark := " "
		if s.Applied {
			mark = "x"
		}
		fmt.Printf("  [%s] %03d_%s\n", mark, s.Version, s.Name)
	}
	return nil
}
