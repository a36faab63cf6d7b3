package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
	"github.com/fyerfyer/druid-atpg/pkg/fsim"
	"github.com/fyerfyer/druid-atpg/pkg/tvec"
	"github.com/fyerfyer/druid-atpg/pkg/utils"
)

var (
	simCircuit  string
	simPatterns string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Grade an external pattern set with the parallel fault simulator",
	RunE:  runSim,
}

func init() {
	simCmd.Flags().StringVar(&simCircuit, "circuit", "", "circuit file in BENCH format")
	simCmd.Flags().StringVar(&simPatterns, "patterns", "", "pattern file, one binary vector per line")
	_ = simCmd.MarkFlagRequired("circuit")
	_ = simCmd.MarkFlagRequired("patterns")
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, args []string) error {
	nw, err := utils.ParseBenchFile(simCircuit)
	if err != nil {
		return fmt.Errorf("failed to parse circuit: %w", err)
	}
	ft, err := faultTypeFromConfig()
	if err != nil {
		return err
	}
	tvs, err := utils.ReadTestVectors(simPatterns, nw.InputNum(), nw.DffNum(), ft == circuit.TransitionDelay)
	if err != nil {
		return err
	}

	sim := fsim.New(nw, ft)
	detected := make(map[int]bool)
	for beg := 0; beg < len(tvs); beg += tvec.PvBitLen {
		end := beg + tvec.PvBitLen
		if end > len(tvs) {
			end = len(tvs)
		}
		sim.PPSFP(tvs[beg:end], func(f *circuit.Fault, mask tvec.PackedVal) bool {
			if !detected[f.ID] {
				detected[f.ID] = true
				sim.SetSkip(f)
			}
			return true
		})
	}

	total := len(nw.RepFaultList())
	coverage := 0.0
	if total > 0 {
		coverage = float64(len(detected)) / float64(total)
	}
	logger.Info().
		Str("circuit", nw.Name()).
		Int("patterns", len(tvs)).
		Int("faults", total).
		Int("detected", len(detected)).
		Float64("coverage", coverage).
		Msg("fault grading complete")
	return nil
}
