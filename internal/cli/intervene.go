package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/adapters/otel"
	"github.com/emiliopalmerini/pausa/internal/adapters/tui"
	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/intervention"
	"github.com/emiliopalmerini/pausa/internal/ports"
)

const (
	decisionProceed   = "proceed"
	decisionDismiss   = "dismiss"
	decisionAbandoned = "abandoned"

	// exitHold tells the calling wrapper not to launch the app.
	exitHold = 2
)

// InterveneResponse is the line printed on stdout once the session ends.
// Detector wrappers read it, or just the exit status, to decide whether to
// launch the app.
type InterveneResponse struct {
	Decision    string `json:"decision"`
	SessionID   string `json:"session_id"`
	Intention   string `json:"intention,omitempty"`
	OpenCount   int    `json:"open_count"`
	WaitSeconds int    `json:"wait_seconds"`
}

var interveneCmd = &cobra.Command{
	Use:   "intervene",
	Short: "Run one intervention before a monitored app opens",
	Long: `Shows the waiting, intention and confirm screens for one app open and
prints the decision as JSON.

The exit status is 0 when the user chose to open the app, and 2 when they
dismissed it or left the screen, so a launcher wrapper can gate on it:

  pausa intervene --app Instagram --package com.instagram.android && open-instagram

A detector can also send the trigger as JSON on stdin:

  echo '{"event":"AppOpen","source":"usage_stats","app_name":"Instagram"}' | pausa intervene --stdin`,
	RunE: runIntervene,
}

var (
	interveneApp     string
	intervenePackage string
	interveneStdin   bool
)

// runScreen shows the intervention screens. Tests replace it to drive the
// session without a terminal.
var runScreen = func(host *tui.Host, sess tui.Session) (bool, error) {
	return host.Run(sess)
}

func init() {
	interveneCmd.Flags().StringVar(&interveneApp, "app", "", "Display name of the app being opened")
	interveneCmd.Flags().StringVar(&intervenePackage, "package", "", "Package or bundle identifier of the app")
	interveneCmd.Flags().BoolVar(&interveneStdin, "stdin", false, "Read an AppOpen trigger event as JSON from stdin")
}

func runIntervene(cmd *cobra.Command, args []string) error {
	trig, err := readTrigger(interveneStdin, os.Stdin)
	if err != nil {
		return err
	}

	ctx := context.Background()

	app, err := NewAppContext(ctx, true)
	if err != nil {
		return err
	}
	defer func() {
		app.Sync()
		_ = app.Close()
	}()

	exporter := newMetricsExporter(ctx, app)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), app.Config.Friction.RecordTimeout)
		defer cancel()
		if err := exporter.Close(closeCtx); err != nil {
			app.Logger.Error(fmt.Sprintf("Failed to close metrics exporter: %v", err))
		}
	}()

	host := tui.NewHost(app.Translator, app.Logger, trig.AppName)
	trig.OnChange = host.OnChange

	svc := intervention.NewService(app.Counter, app.Outcomes, app.Logger,
		intervention.Config{
			WarningThreshold: app.Config.Friction.WarningThreshold,
			TickInterval:     app.Config.Friction.TickInterval,
			RecordTimeout:    app.Config.Friction.RecordTimeout,
		},
		intervention.WithMetricsExporter(exporter),
	)

	sess, err := svc.Start(ctx, trig)
	if err != nil {
		return fmt.Errorf("failed to start intervention: %w", err)
	}

	decided, err := runScreen(host, sess)
	if err != nil {
		return err
	}

	st := sess.State()
	resp := InterveneResponse{
		Decision:    decisionAbandoned,
		SessionID:   sess.ID(),
		OpenCount:   st.OpenCount,
		WaitSeconds: st.WaitSeconds,
	}
	if o, ok := sess.Outcome(); decided && ok {
		resp.Decision = o.Decision()
		resp.Intention = string(o.Intention)
	}

	if err := outputJSON(resp); err != nil {
		return err
	}
	if line := closingLine(app.Translator, resp.Decision, trig.AppName); line != "" {
		fmt.Fprintln(os.Stderr, line)
	}
	if resp.Decision != decisionProceed {
		return &ExitError{Code: exitHold}
	}
	return nil
}

// closingLine is shown on stderr after a decision. Abandoned sessions get none.
func closingLine(t ports.Translator, decision, appName string) string {
	switch decision {
	case decisionProceed:
		return t.T("done.proceed", appName)
	case decisionDismiss:
		return t.T("done.dismiss")
	}
	return ""
}

// readTrigger builds the trigger from stdin or from the command flags.
func readTrigger(fromStdin bool, stdin io.Reader) (intervention.Trigger, error) {
	if !fromStdin {
		name := strings.TrimSpace(interveneApp)
		pkg := strings.TrimSpace(intervenePackage)
		if name == "" && pkg == "" {
			return intervention.Trigger{}, fmt.Errorf("--app or --package is required")
		}
		if name == "" {
			name = pkg
		}
		return intervention.Trigger{AppName: name, AppPackage: pkg}, nil
	}

	input, err := io.ReadAll(stdin)
	if err != nil {
		return intervention.Trigger{}, fmt.Errorf("failed to read stdin: %w", err)
	}

	event, err := domain.ParseTriggerEvent(input)
	if err != nil {
		return intervention.Trigger{}, fmt.Errorf("failed to parse trigger event: %w", err)
	}

	switch e := event.(type) {
	case *domain.AppOpenInput:
		return intervention.Trigger{AppName: e.AppName, AppPackage: e.AppPackage}, nil
	default:
		return intervention.Trigger{}, fmt.Errorf("unhandled trigger event type: %T", event)
	}
}

// newMetricsExporter returns the OTLP exporter when enabled. Metrics are best
// effort, so a broken exporter falls back to a no-op one.
func newMetricsExporter(ctx context.Context, app *AppContext) ports.MetricsExporter {
	cfg := app.Config.OTEL
	if !cfg.Enabled {
		return otel.NewNoOpExporter()
	}

	dialCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	exp, err := otel.NewExporter(dialCtx, otel.Config{
		Endpoint:       cfg.Endpoint,
		Enabled:        cfg.Enabled,
		Insecure:       cfg.Insecure,
		ServiceVersion: version,
	})
	if err != nil {
		app.Logger.Error(fmt.Sprintf("Failed to create OTEL exporter: %v", err))
		return otel.NewNoOpExporter()
	}
	return exp
}

// outputJSON writes v as one JSON line to stdout.
func outputJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
