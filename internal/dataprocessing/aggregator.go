package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"pickpulse/pkg/contracts/domain"
)

// Aggregator folds combined record collections into per-employee summaries.
// Every call recomputes from scratch and returns freshly constructed values;
// the aggregator holds no state between calls.
type Aggregator struct {
	logger         *slog.Logger
	normalizeNames bool
}

// AggregatorConfig holds configuration options for the Aggregator.
type AggregatorConfig struct {
	// NormalizeNames trims and upper-cases employee names before grouping.
	// Off by default: grouping is by the exact parsed string, so two
	// spellings of the same person remain two employees. Turning this on
	// changes aggregation results and must be an explicit choice.
	NormalizeNames bool
}

// NewAggregator creates an employee aggregator with the given configuration.
func NewAggregator(logger *slog.Logger, config AggregatorConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger:         logger.With(slog.String("component", "aggregator")),
		normalizeNames: config.NormalizeNames,
	}
}

// employeeAccumulator carries the running sums for one employee.
type employeeAccumulator struct {
	totalPickTime float64
	totalBins     float64
	totalPacks    float64
	totalPackTime float64
	weeks         map[string]struct{}
}

// GenerateFromRecords produces one EmployeePerformance per distinct employee
// name across the input. Pick sums feed the seconds-per-bin derivation and
// the efficiency tier; pack sums are carried when present. The average is
// computed once from the aggregated totals - averaging per-record ratios
// would bias the result toward employees with more rows.
func (a *Aggregator) GenerateFromRecords(ctx context.Context, records []domain.Record) []domain.EmployeePerformance {
	a.logger.InfoContext(ctx, "aggregating employee performance",
		slog.Int("record_count", len(records)))

	byEmployee := make(map[string]*employeeAccumulator)
	// Insertion order keeps ties beyond the two sort keys stable.
	order := make([]string, 0)

	for _, record := range records {
		name := record.EmployeeName()
		if a.normalizeNames {
			name = strings.ToUpper(strings.TrimSpace(name))
		}

		acc, ok := byEmployee[name]
		if !ok {
			acc = &employeeAccumulator{weeks: make(map[string]struct{})}
			byEmployee[name] = acc
			order = append(order, name)
		}

		if week := record.WeekID(); week != "" {
			acc.weeks[week] = struct{}{}
		}

		switch r := record.(type) {
		case domain.PickRecord:
			acc.totalPickTime += r.TotalPickTime
			acc.totalBins += r.TotalBins
		case domain.PackRecord:
			acc.totalPacks += r.TotalPacks
			acc.totalPackTime += r.TotalTime
		}
	}

	performances := make([]domain.EmployeePerformance, 0, len(order))
	for _, name := range order {
		acc := byEmployee[name]

		avgSeconds := AverageSecondsPerBin(acc.totalPickTime, acc.totalBins)

		perf := domain.EmployeePerformance{
			Employee:      name,
			TotalPickTime: acc.totalPickTime,
			TotalBins:     acc.totalBins,
			AvgTimePerBin: avgSeconds,
			Weeks:         sortedWeeks(acc.weeks),
			Efficiency:    ClassifyEfficiency(avgSeconds),
		}
		// Pack metrics are only emitted when the employee has pack-side
		// data; a zero sum means "absent".
		if acc.totalPacks > 0 {
			perf.TotalPacks = acc.totalPacks
		}
		if acc.totalPackTime > 0 {
			perf.TotalPackTime = acc.totalPackTime
		}

		performances = append(performances, perf)
	}

	sort.SliceStable(performances, func(i, j int) bool {
		if performances[i].Efficiency.Rank() != performances[j].Efficiency.Rank() {
			return performances[i].Efficiency.Rank() > performances[j].Efficiency.Rank()
		}
		return performances[i].TotalBins > performances[j].TotalBins
	})

	a.logger.InfoContext(ctx, "employee aggregation complete",
		slog.Int("employee_count", len(performances)))

	return performances
}

// AverageSecondsPerBin derives seconds per bin from total pick hours and
// total bins. Zero bins degenerate to zero rather than a division fault.
func AverageSecondsPerBin(totalPickTimeHours, totalBins float64) float64 {
	if totalBins <= 0 {
		return 0
	}
	return totalPickTimeHours * 3600 / totalBins
}

// sortedWeeks returns the distinct weeks in ascending numeric-aware order.
func sortedWeeks(weeks map[string]struct{}) []string {
	out := make([]string, 0, len(weeks))
	for week := range weeks {
		out = append(out, week)
	}
	sort.Slice(out, func(i, j int) bool { return lessWeek(out[i], out[j]) })
	return out
}

// lessWeek orders week identifiers numerically when both sides are numbers.
// Non-numeric identifiers sort before numeric ones, lexically among
// themselves; the parser only produces numeric weeks, so this is a guard for
// records constructed elsewhere.
func lessWeek(a, b string) bool {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return an < bn
	case aErr == nil:
		return false
	case bErr == nil:
		return true
	default:
		return a < b
	}
}
