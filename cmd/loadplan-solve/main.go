// Command loadplan-solve reads a load-planning request as JSON and prints
// the packed plan as JSON, wiring the solver core to a cobra CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/piwi3910/loadplan/internal/config"
	"github.com/piwi3910/loadplan/internal/solver"
	"github.com/piwi3910/loadplan/internal/wire"
)

var (
	inputPath  string
	outputPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "loadplan-solve",
	Short: "Pack pallets and containers from a JSON load-planning request",
	Long: `loadplan-solve reads a request describing item groups and container
groups, stages and packs them, and writes the resulting plan as JSON.`,
	RunE: runSolve,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to request JSON (default stdin)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write response JSON (default stdout)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().Int("pool-cap", config.Default().PoolCap, "container pool size above which capping kicks in")
	rootCmd.Flags().Int("small-combo-threshold", config.Default().SmallComboThreshold, "container count boundary for full subset enumeration")
	rootCmd.Flags().Int("top-combos-kept", config.Default().TopCombosKept, "ranked combinations kept after enumeration")
	rootCmd.Flags().Int("large-instance-item-threshold", config.Default().LargeInstanceItemThreshold, "item count at or above which only top-N combos are evaluated")
	rootCmd.Flags().Int("evaluate-top-n", config.Default().EvaluateTopN, "combos evaluated for large instances")
	rootCmd.Flags().Float64("target-utilization", config.Default().TargetUtilization, "assumed floor utilization for pool-capping need estimate")

	viper.BindPFlag("pool_cap", rootCmd.Flags().Lookup("pool-cap"))
	viper.BindPFlag("small_combo_threshold", rootCmd.Flags().Lookup("small-combo-threshold"))
	viper.BindPFlag("top_combos_kept", rootCmd.Flags().Lookup("top-combos-kept"))
	viper.BindPFlag("large_instance_item_threshold", rootCmd.Flags().Lookup("large-instance-item-threshold"))
	viper.BindPFlag("evaluate_top_n", rootCmd.Flags().Lookup("evaluate-top-n"))
	viper.BindPFlag("target_utilization", rootCmd.Flags().Lookup("target-utilization"))

	viper.SetEnvPrefix("LOADPLAN")
	viper.AutomaticEnv()
}

func loadConfig() config.SolverConfig {
	cfg := config.Default()
	if v := viper.GetInt("pool_cap"); v > 0 {
		cfg.PoolCap = v
	}
	if v := viper.GetInt("small_combo_threshold"); v > 0 {
		cfg.SmallComboThreshold = v
	}
	if v := viper.GetInt("top_combos_kept"); v > 0 {
		cfg.TopCombosKept = v
	}
	if v := viper.GetInt("large_instance_item_threshold"); v > 0 {
		cfg.LargeInstanceItemThreshold = v
	}
	if v := viper.GetInt("evaluate_top_n"); v > 0 {
		cfg.EvaluateTopN = v
	}
	if v := viper.GetFloat64("target_utilization"); v > 0 {
		cfg.TargetUtilization = v
	}
	return cfg
}

func runSolve(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	in, err := openInput(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	if inputPath != "" {
		defer in.Close()
	}

	var req wire.SolveRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}

	cfg := loadConfig()
	result := solver.Solve(req.ToSolveInput(), cfg, logger)
	resp := wire.FromSolveResult(result)

	out, err := openOutput(outputPath)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	if outputPath != "" {
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openInput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func openOutput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
