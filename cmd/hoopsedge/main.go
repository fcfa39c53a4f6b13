// hoopsedge prices a day's basketball slate: it builds per-game features
// from reference fixtures, simulates each game, and reports value bets.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/config"
	"github.com/phenomenon0/hoopsedge/pkg/logging"
	"github.com/phenomenon0/hoopsedge/pkg/metrics"
	"github.com/phenomenon0/hoopsedge/pkg/refdata"
	"github.com/phenomenon0/hoopsedge/pkg/report"
	"github.com/phenomenon0/hoopsedge/pkg/slate"
)

const dateLayout = "2006-01-02"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hoopsedge",
		Short: "Basketball game modeling and value-bet finder",
		Long: `hoopsedge runs each game of a slate through feature modules (fatigue,
lineup, pace, motivation, shot quality) and model modules (expected
differential, Monte Carlo simulation, win probability, market value), then
ranks every priced market leg by expected value.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newValidateConfigCmd(), newKeysCmd())
	return root
}

type runOptions struct {
	dataDir           string
	configPath        string
	date              string
	seed              uint64
	workers           int
	format            string
	out               string
	export            string
	withDistributions bool
	metricsAddr       string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a slate and report value bets",
		Long: `Load fixtures from --data, process every game on --date (all loaded games
when omitted) and write the ranked value lines.

Example usage:
  hoopsedge run --data ./data --date 2025-01-15
  hoopsedge run --data ./data --seed 42 --format csv --out lines.csv
  hoopsedge run --data ./data --export games.json --with-distributions`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSlate(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.dataDir, "data", "", "fixture directory (required)")
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.date, "date", "", "slate date YYYY-MM-DD")
	f.Uint64Var(&opts.seed, "seed", 0, "simulation seed (overrides config)")
	f.IntVar(&opts.workers, "workers", 0, "games processed concurrently (overrides config)")
	f.StringVar(&opts.format, "format", report.FormatTable, "output format: table, json or csv")
	f.StringVar(&opts.out, "out", "", "write the report to this file instead of stdout")
	f.StringVar(&opts.export, "export", "", "write full game contexts as JSON to this file")
	f.BoolVar(&opts.withDistributions, "with-distributions", false, "include simulated distributions in --export")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runSlate(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		seed := opts.seed
		cfg.Seed = &seed
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if _, err := logging.Setup(logging.Options{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		Writer: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}

	var date time.Time
	if opts.date != "" {
		if date, err = time.Parse(dateLayout, opts.date); err != nil {
			return fmt.Errorf("invalid --date %q: %w", opts.date, err)
		}
	}

	tables, err := refdata.LoadDir(opts.dataDir)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	runner, err := slate.New(cfg, tables)
	if err != nil {
		return err
	}

	m := metrics.New()
	runner.Pipeline().WithObserver(m)
	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: metricsMux(m)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", opts.metricsAddr).Msg("metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	res, runErr := runner.Run(cmd.Context(), date)
	if res == nil {
		return runErr
	}
	games := res.Games()
	for _, gc := range games {
		m.RecordLines(gc.Lines)
	}
	m.RecordSlate(res.Plan, res.Duration, runErr)

	if err := writeTo(cmd.OutOrStdout(), opts.out, func(w io.Writer) error {
		return report.Write(w, opts.format, report.Rows(games, res.Plan))
	}); err != nil {
		return err
	}
	if opts.export != "" {
		exportOpts := core.ExportOptions{WithInputs: true, WithDistributions: opts.withDistributions}
		if err := writeTo(nil, opts.export, func(w io.Writer) error {
			return report.WriteGames(w, games, exportOpts)
		}); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if n := res.Failed(); n > 0 {
		return fmt.Errorf("%d of %d games failed", n, len(res.Outcomes))
	}
	return nil
}

func metricsMux(m *metrics.PipelineMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}

// writeTo writes to path, or to def when path is empty.
func writeTo(def io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(def)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newValidateConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate a config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := config.Load(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "YAML config file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every recognized context key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "# key registry version %d\n", core.KeysVersion)
			fmt.Fprintln(tw, "KEY\tKIND\tOWNER\tDESCRIPTION")
			for _, s := range core.AllKeys() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Key, s.Kind, s.Owner, s.Doc)
			}
			return tw.Flush()
		},
	}
}
