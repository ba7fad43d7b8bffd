// Package config holds the numeric thresholds the solver uses: a plain
// struct with a documented default constructor, loadable via viper/cobra
// flags at the CLI boundary.
package config

// SolverConfig holds every tunable threshold the solver pipeline reads.
type SolverConfig struct {
	// PoolCap is the container pool size above which pool capping kicks in.
	PoolCap int `mapstructure:"pool_cap"`

	// SmallComboThreshold is the container-count boundary between full
	// subset enumeration and the backtracking template search.
	SmallComboThreshold int `mapstructure:"small_combo_threshold"`

	// TopCombosKept is how many ranked combinations survive enumeration.
	TopCombosKept int `mapstructure:"top_combos_kept"`

	// LargeInstanceItemThreshold is the item count at or above which only
	// the top-N combos are evaluated.
	LargeInstanceItemThreshold int `mapstructure:"large_instance_item_threshold"`

	// EvaluateTopN is how many combos get a full pack-and-score pass for
	// large instances.
	EvaluateTopN int `mapstructure:"evaluate_top_n"`

	// TargetUtilization is the assumed floor-utilization fraction used by
	// the pool-capping need estimate.
	TargetUtilization float64 `mapstructure:"target_utilization"`

	// Eps is the shared floating point tolerance.
	Eps float64 `mapstructure:"eps"`
}

// Default returns the solver's documented thresholds.
func Default() SolverConfig {
	return SolverConfig{
		PoolCap:                    500,
		SmallComboThreshold:        15,
		TopCombosKept:              50,
		LargeInstanceItemThreshold: 500,
		EvaluateTopN:               10,
		TargetUtilization:          0.70,
		Eps:                        1e-5,
	}
}
