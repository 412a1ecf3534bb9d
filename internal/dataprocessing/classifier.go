package dataprocessing

import "pickpulse/pkg/contracts/domain"

// Efficiency tier cutoffs in average seconds per bin. These are warehouse
// business-policy constants; the boundary semantics are exact: a value of
// exactly Level3MaxSeconds still classifies as level3, a value of exactly
// Level2MaxSeconds still classifies as level2.
const (
	Level3MaxSeconds = 25.5
	Level2MaxSeconds = 35.0
)

// ClassifyEfficiency maps an employee's average seconds per bin onto the
// three-tier scale. Zero means "no bin data" and classifies as the neutral
// middle tier rather than an error.
func ClassifyEfficiency(avgTimePerBinSeconds float64) domain.EfficiencyTier {
	switch {
	case avgTimePerBinSeconds <= 0:
		return domain.EfficiencyLevel2
	case avgTimePerBinSeconds <= Level3MaxSeconds:
		return domain.EfficiencyLevel3
	case avgTimePerBinSeconds <= Level2MaxSeconds:
		return domain.EfficiencyLevel2
	default:
		return domain.EfficiencyLevel1
	}
}
