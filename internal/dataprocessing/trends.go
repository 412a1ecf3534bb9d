package dataprocessing

import (
	"sort"

	"pickpulse/pkg/contracts/domain"
)

// weekAccumulator carries the running sums for one week.
type weekAccumulator struct {
	totalPickTime float64
	totalBins     float64
	employees     map[string]struct{}
}

// WeeklyTrends folds pick-type records carrying a week identifier into one
// summary per week: total pick hours, total bins, the derived seconds per
// bin, and the count of distinct contributing employees. Pack records and
// records without a week are ignored. Output is sorted ascending by the
// numeric value of the week.
func WeeklyTrends(records []domain.Record) []domain.WeeklyTrend {
	byWeek := make(map[string]*weekAccumulator)
	order := make([]string, 0)

	for _, record := range records {
		pick, ok := record.(domain.PickRecord)
		if !ok || pick.Week == "" {
			continue
		}

		acc, seen := byWeek[pick.Week]
		if !seen {
			acc = &weekAccumulator{employees: make(map[string]struct{})}
			byWeek[pick.Week] = acc
			order = append(order, pick.Week)
		}

		acc.totalPickTime += pick.TotalPickTime
		acc.totalBins += pick.TotalBins
		acc.employees[pick.Employee] = struct{}{}
	}

	trends := make([]domain.WeeklyTrend, 0, len(order))
	for _, week := range order {
		acc := byWeek[week]
		trends = append(trends, domain.WeeklyTrend{
			Week:          week,
			TotalPickTime: acc.totalPickTime,
			TotalBins:     acc.totalBins,
			AvgTimePerBin: AverageSecondsPerBin(acc.totalPickTime, acc.totalBins),
			EmployeeCount: len(acc.employees),
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return lessWeek(trends[i].Week, trends[j].Week)
	})

	return trends
}
