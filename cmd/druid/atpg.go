package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/dtpg"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
	"github.com/fyerfyer/druid-atpg/pkg/utils"
)

var (
	atpgCircuit string
	atpgOutput  string
)

var atpgCmd = &cobra.Command{
	Use:   "atpg",
	Short: "Generate a test set for every representative fault",
	RunE:  runAtpg,
}

func init() {
	atpgCmd.Flags().StringVar(&atpgCircuit, "circuit", "", "circuit file in BENCH format")
	atpgCmd.Flags().StringVar(&atpgOutput, "output", "tests.txt", "output file for test vectors")
	_ = atpgCmd.MarkFlagRequired("circuit")
	rootCmd.AddCommand(atpgCmd)
}

func faultTypeFromConfig() (circuit.FaultType, error) {
	switch cfg.Atpg.FaultType {
	case "", "stuck-at":
		return circuit.StuckAt, nil
	case "transition-delay":
		return circuit.TransitionDelay, nil
	default:
		return circuit.StuckAt, fmt.Errorf("unknown fault type %q", cfg.Atpg.FaultType)
	}
}

func runAtpg(cmd *cobra.Command, args []string) error {
	logger.Info().Str("circuit", atpgCircuit).Msg("parsing circuit")
	nw, err := utils.ParseBenchFile(atpgCircuit)
	if err != nil {
		return fmt.Errorf("failed to parse circuit: %w", err)
	}
	ft, err := faultTypeFromConfig()
	if err != nil {
		return err
	}

	fm := circuit.GenFaultList(nw, ft)
	mgr := dtpg.NewMgr(fm)
	mgr.SetLogger(logger)

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(dtpg.NewMetrics(mgr))
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Warn().Err(err).Msg("metrics endpoint stopped")
			}
		}()
	}

	if cfg.Atpg.RandomPatNum > 0 {
		mgr.RunRandom(cfg.Atpg.RandomPatNum, cfg.Atpg.RandomSeed, nil)
	}

	options, err := json.Marshal(dtpg.Options{
		DtpgType:     cfg.Atpg.DtpgType,
		JustType:     cfg.Atpg.JustType,
		SatTimeoutMs: cfg.Atpg.SatTimeoutMs,
		DropFault:    cfg.Atpg.DropFault,
	})
	if err != nil {
		return err
	}

	det := func(m *dtpg.Mgr, f *circuit.Fault, tv *tvec.TestVector) {
		logger.Debug().Str("fault", f.String()).Str("pattern", tv.BinStr()).Msg("detected")
	}
	undet := func(m *dtpg.Mgr, f *circuit.Fault) {
		logger.Debug().Str("fault", f.String()).Msg("untestable")
	}
	abort := func(m *dtpg.Mgr, f *circuit.Fault) {
		logger.Warn().Str("fault", f.String()).Msg("aborted")
	}

	stats, err := mgr.Run(det, undet, abort, options)
	if err != nil {
		return err
	}

	vectors := mgr.TestVectors()
	if cfg.Atpg.Compact {
		before := len(vectors)
		vectors = dtpg.CompactVectors(vectors)
		logger.Info().Int("before", before).Int("after", len(vectors)).Msg("compacted vectors")
	}

	if err := utils.WriteTestVectors(atpgOutput, vectors); err != nil {
		return err
	}

	total := len(fm.FaultList())
	logger.Info().
		Str("circuit", nw.Name()).
		Int("faults", total).
		Int("detected", stats.DetCount).
		Int("untestable", stats.UntestCount).
		Int("aborted", stats.AbortCount).
		Int("vectors", len(vectors)).
		Float64("coverage", stats.Coverage(total)).
		Dur("sat_time", stats.SatTime).
		Dur("cnf_time", stats.CnfTime).
		Msg("ATPG complete")
	return nil
}
