package exporter

import (
	"strings"

	"pickpulse/pkg/contracts/domain"
)

// Column layouts for the generated report files. These match the JSON
// field order of the corresponding domain types.
var (
	PerformanceHeaders = []string{
		"Employee", "TotalPickTime", "TotalBins", "AvgTimePerBin",
		"TotalPacks", "TotalPackTime", "Weeks", "Efficiency",
	}
	TrendHeaders = []string{
		"Week", "TotalPickTime", "TotalBins", "AvgTimePerBin", "EmployeeCount",
	}
	RecordHeaders = []string{
		"ID", "FileName", "Week", "Kind", "Employee",
		"TotalPicks", "TotalBins", "TotalPickTime",
		"TotalPacks", "TotalTime",
	}
)

// PerformanceRows projects employee aggregates into CSV rows
func PerformanceRows(performances []domain.EmployeePerformance) [][]string {
	rows := make([][]string, 0, len(performances))
	for _, p := range performances {
		packs, packTime := "", ""
		if p.HasPackData() {
			packs = formatFloat(p.TotalPacks)
			packTime = formatFloat(p.TotalPackTime)
		}
		rows = append(rows, []string{
			p.Employee,
			formatFloat(p.TotalPickTime),
			formatFloat(p.TotalBins),
			formatFloat(p.AvgTimePerBin),
			packs,
			packTime,
			strings.Join(p.Weeks, ";"),
			string(p.Efficiency),
		})
	}
	return rows
}

// TrendRows projects weekly trends into CSV rows
func TrendRows(trends []domain.WeeklyTrend) [][]string {
	rows := make([][]string, 0, len(trends))
	for _, t := range trends {
		rows = append(rows, []string{
			t.Week,
			formatFloat(t.TotalPickTime),
			formatFloat(t.TotalBins),
			formatFloat(t.AvgTimePerBin),
			formatInt(int64(t.EmployeeCount)),
		})
	}
	return rows
}

// RecordRows projects raw records into CSV rows. Pick and pack variants
// share one layout; columns that do not apply to a variant stay empty.
func RecordRows(records []domain.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		switch rec := r.(type) {
		case domain.PickRecord:
			rows = append(rows, []string{
				rec.ID, rec.FileName, rec.Week, string(domain.KindPick), rec.Employee,
				formatFloat(rec.TotalPicks),
				formatFloat(rec.TotalBins),
				formatFloat(rec.TotalPickTime),
				"", "",
			})
		case domain.PackRecord:
			rows = append(rows, []string{
				rec.ID, rec.FileName, rec.Week, string(domain.KindPack), rec.Employee,
				"", "", "",
				formatFloat(rec.TotalPacks),
				formatFloat(rec.TotalTime),
			})
		}
	}
	return rows
}
