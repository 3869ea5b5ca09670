// Command fleetconn generates and serves the fleet connectivity demo dataset.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleetintel/connectivity-intel/internal/config"
	"github.com/fleetintel/connectivity-intel/internal/export"
	"github.com/fleetintel/connectivity-intel/internal/models"
	"github.com/fleetintel/connectivity-intel/internal/server"
	"github.com/fleetintel/connectivity-intel/internal/store"
	"github.com/fleetintel/connectivity-intel/internal/synth"
	"github.com/fleetintel/connectivity-intel/internal/views"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleetconn",
		Short: "Fleet Connectivity Intelligence - mock cellular telemetry for the fleet dashboard",
		Long: `Generates the demo fleet connectivity dataset (vehicles, cell towers,
error log) and serves it to the dashboard over a read-only HTTP API.
Generation is deterministic per seed, so demo runs are reproducible.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(summaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fleetFlags are the generation knobs shared by all subcommands. Defaults
// come from the environment so container deployments need no flags.
type fleetFlags struct {
	vehicles int
	towers   int
	seed     int64
	scenario string
}

func addFleetFlags(cmd *cobra.Command, cfg *config.Config, f *fleetFlags) {
	cmd.Flags().IntVarP(&f.vehicles, "vehicles", "n", cfg.Fleet.Size, "Number of vehicles")
	cmd.Flags().IntVarP(&f.towers, "towers", "t", cfg.Fleet.TowerCount, "Number of cell towers")
	cmd.Flags().Int64VarP(&f.seed, "seed", "s", cfg.Fleet.Seed, "Random seed for reproducibility")
	cmd.Flags().StringVar(&f.scenario, "scenario", cfg.Fleet.ScenarioPath, "Scenario override file (JSON)")
}

// buildSnapshot assembles the synthesizer from defaults plus any scenario
// overrides and runs one generation.
func buildSnapshot(f fleetFlags) (*synth.Synthesizer, []models.FleetVehicle, *models.FleetSnapshot, error) {
	cfg := synth.DefaultConfig()
	cfg.TowerCount = f.towers
	cfg.ReferenceTime = time.Now().UTC()

	if f.scenario != "" {
		file, err := os.Open(f.scenario)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open scenario: %w", err)
		}
		defer file.Close()
		cfg, err = synth.LoadScenario(file, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	synthesizer, err := synth.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	fleet := synth.DemoFleet(f.vehicles)
	snapshot, err := synthesizer.Synthesize(fleet, f.seed)
	if err != nil {
		return nil, nil, nil, err
	}
	return synthesizer, fleet, snapshot, nil
}

func printSummary(w *os.File, snapshot *models.FleetSnapshot) {
	summary := views.Summarize(snapshot)
	fmt.Fprintf(w, "--- Fleet Summary ---\n")
	fmt.Fprintf(w, "Vehicles: %d\n", summary.TotalVehicles)
	fmt.Fprintf(w, "Towers:   %d\n", summary.TotalTowers)
	for _, tier := range models.Tiers {
		fmt.Fprintf(w, "  %-8s %d\n", tier, summary.ByTier[tier])
	}
	fmt.Fprintf(w, "Avg signal: %.1f dBm, avg uptime: %.1f%%, open incidents: %d, errors: %d\n",
		summary.AvgSignal, summary.AvgUptime, summary.OpenIncidents, summary.TotalErrors)
}

// generateCmd writes a snapshot to stdout or a file.
func generateCmd() *cobra.Command {
	var flags fleetFlags
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a fleet connectivity snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, snapshot, err := buildSnapshot(flags)
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				out = file
			}

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(snapshot); err != nil {
					return err
				}
			case "csv":
				if err := export.Write(out, snapshot, export.ViewIdentifiers, export.Filter{}); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}

			if output != "" {
				fmt.Fprintf(os.Stderr, "Written %d vehicles, %d towers to %s\n",
					len(snapshot.Vehicles), len(snapshot.Towers), output)
			}
			printSummary(os.Stderr, snapshot)
			return nil
		},
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	addFleetFlags(cmd, cfg, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, csv)")
	return cmd
}

// serveCmd generates a snapshot and serves the dashboard API.
func serveCmd() *cobra.Command {
	var flags fleetFlags
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fleet connectivity API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			synthesizer, fleet, snapshot, err := buildSnapshot(flags)
			if err != nil {
				return err
			}

			snapshotStore := store.NewMemoryStore(snapshot)
			metrics := server.NewMetrics()
			metrics.ObserveSnapshot(snapshot)

			router := server.New(&server.Dependencies{
				Config:      cfg,
				Store:       snapshotStore,
				Synthesizer: synthesizer,
				Fleet:       fleet,
				Logger:      logger,
				Metrics:     metrics,
			})

			logger.Info("serving fleet connectivity API",
				zap.String("port", port),
				zap.Int64("seed", flags.seed),
				zap.Int("vehicles", len(snapshot.Vehicles)),
				zap.Int("towers", len(snapshot.Towers)),
			)
			return router.Run(":" + port)
		},
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	addFleetFlags(cmd, cfg, &flags)
	cmd.Flags().StringVarP(&port, "port", "p", cfg.Server.Port, "Server port")
	return cmd
}

// summaryCmd prints the tier distribution for a seed without dumping data.
func summaryCmd() *cobra.Command {
	var flags fleetFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the tier distribution a seed produces",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, snapshot, err := buildSnapshot(flags)
			if err != nil {
				return err
			}
			printSummary(os.Stdout, snapshot)
			return nil
		},
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	addFleetFlags(cmd, cfg, &flags)
	return cmd
}
