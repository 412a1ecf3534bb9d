package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/pkg/contracts/domain"
)

func TestPerformanceRows(t *testing.T) {
	performances := []domain.EmployeePerformance{
		{
			Employee:      "J.DOE",
			TotalPickTime: 1.5,
			TotalBins:     300,
			AvgTimePerBin: 18,
			TotalPacks:    340,
			TotalPackTime: 6,
			Weeks:         []string{"17", "18"},
			Efficiency:    domain.EfficiencyLevel3,
		},
		{
			Employee:      "A.SMITH",
			TotalPickTime: 2.5,
			TotalBins:     300,
			AvgTimePerBin: 30,
			Weeks:         []string{"17"},
			Efficiency:    domain.EfficiencyLevel2,
		},
	}

	rows := PerformanceRows(performances)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"J.DOE", "1.50", "300.00", "18.00", "340.00", "6.00", "17;18", "level3",
	}, rows[0])

	// No pack data: pack columns stay empty rather than printing zeros.
	assert.Equal(t, []string{
		"A.SMITH", "2.50", "300.00", "30.00", "", "", "17", "level2",
	}, rows[1])
}

func TestTrendRows(t *testing.T) {
	rows := TrendRows([]domain.WeeklyTrend{
		{Week: "17", TotalPickTime: 0.6, TotalBins: 300, AvgTimePerBin: 7.2, EmployeeCount: 2},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"17", "0.60", "300.00", "7.20", "2"}, rows[0])
}

func TestRecordRows(t *testing.T) {
	records := []domain.Record{
		domain.PickRecord{
			ID: "f-J.DOE-2", FileName: "pick 17.xlsx", Week: "17", Employee: "J.DOE",
			TotalPicks: 100, TotalBins: 1200, TotalPickTime: 12,
		},
		domain.PackRecord{
			ID: "g-B.JONES-2", FileName: "pack 17.xlsx", Week: "17", Employee: "B.JONES",
			TotalPacks: 340, TotalTime: 6,
		},
	}

	rows := RecordRows(records)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"f-J.DOE-2", "pick 17.xlsx", "17", "pick", "J.DOE",
		"100.00", "1200.00", "12.00", "", "",
	}, rows[0])
	assert.Equal(t, []string{
		"g-B.JONES-2", "pack 17.xlsx", "17", "pack", "B.JONES",
		"", "", "", "340.00", "6.00",
	}, rows[1])

	assert.Len(t, RecordHeaders, len(rows[0]))
}
