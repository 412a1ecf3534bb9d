package domain

// EfficiencyTier is an ordinal efficiency class derived from average seconds
// spent per bin. Level3 is best, Level1 worst.
type EfficiencyTier string

const (
	EfficiencyLevel1 EfficiencyTier = "level1"
	EfficiencyLevel2 EfficiencyTier = "level2"
	EfficiencyLevel3 EfficiencyTier = "level3"
)

// Rank returns the ordinal rank of the tier for sorting, higher is better.
// Unknown tiers rank below level1.
func (t EfficiencyTier) Rank() int {
	switch t {
	case EfficiencyLevel3:
		return 3
	case EfficiencyLevel2:
		return 2
	case EfficiencyLevel1:
		return 1
	default:
		return 0
	}
}

// EmployeePerformance is the aggregated view of one employee across the whole
// combined dataset. TotalPacks and TotalPackTime are zero when the employee
// has no pack-side data; JSON omits them in that case.
type EmployeePerformance struct {
	Employee      string         `json:"employee" csv:"Employee"`
	TotalPickTime float64        `json:"total_pick_time" csv:"TotalPickTime"`
	TotalBins     float64        `json:"total_bins" csv:"TotalBins"`
	AvgTimePerBin float64        `json:"avg_time_per_bin" csv:"AvgTimePerBin"`
	TotalPacks    float64        `json:"total_packs,omitempty" csv:"TotalPacks"`
	TotalPackTime float64        `json:"total_pack_time,omitempty" csv:"TotalPackTime"`
	Weeks         []string       `json:"weeks" csv:"Weeks"`
	Efficiency    EfficiencyTier `json:"efficiency" csv:"Efficiency"`
}

// HasPackData reports whether the employee contributed any pack-side records.
func (p EmployeePerformance) HasPackData() bool {
	return p.TotalPacks > 0 || p.TotalPackTime > 0
}

// WeeklyTrend is the aggregated view of one week across pick-type records.
type WeeklyTrend struct {
	Week          string  `json:"week" csv:"Week"`
	TotalPickTime float64 `json:"total_pick_time" csv:"TotalPickTime"`
	TotalBins     float64 `json:"total_bins" csv:"TotalBins"`
	AvgTimePerBin float64 `json:"avg_time_per_bin" csv:"AvgTimePerBin"`
	EmployeeCount int     `json:"employee_count" csv:"EmployeeCount"`
}
