// Command brain runs the learning and plasticity engine as a standalone
// process, driving its own tick loop on a fixed step interval (spec §6's
// external interface is exercised here the way the teacher's examples/
// mains exercise a neuron network directly).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SynapticNetworks/plasticity-core/brain"
	"github.com/SynapticNetworks/plasticity-core/cliconfig"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root := &cobra.Command{
		Use:   "brain",
		Short: "Learning and plasticity core",
		Long:  "A hypergraph substrate of regions, neurons, and synapses driven by Hebbian, STDP, and reward-modulated plasticity.",
	}

	root.AddCommand(newRunCmd(log))
	root.AddCommand(newInspectCmd(log))

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("brain: fatal")
		os.Exit(1)
	}
}

type runFlags struct {
	configPath   *string
	dbPath       *string
	workers      *int
	etaHebbian   *float64
	seed         *int64
	runID        *string
	steps        *int64
	checkpointEvery *int64
	checkpointPath  *string
}

func newRunCmd(log *logrus.Logger) *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tick loop until interrupted or the step budget is exhausted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrain(cmd.Flags(), &rf, log)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	rf.configPath = f.StringP("config", "f", envOr("BRAIN_CONFIG", ""), "Path to TOML config file")
	rf.dbPath = f.String("db-path", "", "Telemetry sqlite database path (overrides config/env BRAIN_DB_PATH)")
	rf.workers = f.Int("workers", 0, "Plasticity worker pool size (overrides config/env BRAIN_WORKERS)")
	rf.etaHebbian = f.Float64("eta-hebbian", 0, "Hebbian learning rate (overrides config/env BRAIN_ETA_HEBBIAN)")
	rf.seed = f.Int64("seed", 0, "Connectivity RNG seed (overrides config/env BRAIN_SEED)")
	rf.runID = f.String("run-id", "", "Run identifier recorded in checkpoint manifests (default: a generated UUID)")
	rf.steps = f.Int64("steps", 0, "Number of ticks to run before exiting (0 = run until interrupted)")
	rf.checkpointEvery = f.Int64("checkpoint-every", 0, "Save a checkpoint every N ticks (0 = disabled)")
	rf.checkpointPath = f.String("checkpoint-path", "brain.ckpt", "Checkpoint file path")

	return cmd
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func runBrain(flags *pflag.FlagSet, rf *runFlags, log *logrus.Logger) error {
	cfg, err := cliconfig.Resolve(*rf.configPath)
	if err != nil {
		return err
	}

	if flags.Changed("db-path") {
		cfg.Telemetry.DBPath = *rf.dbPath
	}
	if flags.Changed("workers") {
		cfg.Learning.Workers = *rf.workers
	}
	if flags.Changed("eta-hebbian") {
		cfg.Learning.EtaHebbian = *rf.etaHebbian
	}
	if flags.Changed("seed") {
		cfg.Seed = *rf.seed
	}

	runID := *rf.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	log.WithFields(logrus.Fields{
		"run_id":      runID,
		"db_path":     cfg.Telemetry.DBPath,
		"workers":     cfg.Learning.Workers,
		"eta_hebbian": cfg.Learning.EtaHebbian,
	}).Info("brain: starting")

	b, err := brain.New(cfg, 0, log)
	if err != nil {
		return fmt.Errorf("brain: construct: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.WithError(err).Warn("brain: close telemetry sink")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.StepInterval)
	defer ticker.Stop()

	var step int64
	for {
		select {
		case <-ctx.Done():
			log.Info("brain: interrupted, shutting down")
			return nil
		case now := <-ticker.C:
			if err := b.Tick(ctx, cfg.StepInterval, now); err != nil {
				return fmt.Errorf("brain: tick: %w", err)
			}
			step++

			if *rf.checkpointEvery > 0 && step%*rf.checkpointEvery == 0 {
				if err := b.SaveCheckpoint(*rf.checkpointPath, runID, 0, now); err != nil {
					log.WithError(err).Warn("brain: checkpoint save failed")
				} else {
					log.WithField("step", step).Info("brain: checkpoint saved")
				}
			}

			if *rf.steps > 0 && step >= *rf.steps {
				log.WithField("step", step).Info("brain: step budget exhausted")
				return nil
			}
		}
	}
}

func newInspectCmd(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <checkpoint-path>",
		Short: "Load a checkpoint and print region and connection diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectCheckpoint(args[0], log)
		},
		SilenceUsage: true,
	}
	return cmd
}

func inspectCheckpoint(path string, log *logrus.Logger) error {
	cfg := cliconfigDefaultForInspect()
	b, err := brain.New(cfg, 0, log)
	if err != nil {
		return fmt.Errorf("inspect: construct brain: %w", err)
	}
	defer b.Close()

	manifest, err := b.LoadCheckpoint(path)
	if err != nil {
		return fmt.Errorf("inspect: load %s: %w", path, err)
	}

	fmt.Printf("run_id:        %s\n", manifest.RunID)
	fmt.Printf("episode_index: %d\n", manifest.EpisodeIdx)
	fmt.Printf("step:          %d\n", manifest.Step)
	fmt.Printf("created_at:    %s\n", manifest.CreatedAt.Format(time.RFC3339))
	fmt.Printf("neurons:       %d\n", manifest.NeuronCount)
	fmt.Printf("synapses:      %d\n", manifest.SynapseCount)
	fmt.Printf("regions:       %d\n", manifest.RegionCount)
	fmt.Println()

	for _, r := range b.Regions.All() {
		m, err := b.RegionMetricsByID(r.ID)
		if err != nil {
			continue
		}
		fmt.Printf("region %-16s neurons=%-6d attention_gain=%.3f hebbian_rate=%.4f mean_activation=%.4f fire_count=%d coherence=%.4f assemblies=%d bindings=%d growth=%d\n",
			m.Name, m.NeuronCount, m.AttentionGain, m.HebbianRate, m.MeanActivation, m.FireCount, m.Coherence, m.AssemblyCount, m.BindingCount, m.GrowthVelocity)
	}
	return nil
}

// cliconfigDefaultForInspect uses an in-memory telemetry database — inspect
// never writes telemetry, it only reads a checkpoint.
func cliconfigDefaultForInspect() brain.Config {
	cfg := brain.DefaultConfig()
	cfg.Telemetry.DBPath = "file:inspect?mode=memory&cache=shared"
	return cfg
}
