package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/pkg/contracts/domain"
)

func TestWeeklyTrends(t *testing.T) {
	t.Run("sums pick metrics per week", func(t *testing.T) {
		records := []domain.Record{
			pick("J.DOE", "17", 0.4, 200),
			pick("A.SMITH", "17", 0.2, 100),
			pick("J.DOE", "18", 0.5, 150),
		}

		trends := WeeklyTrends(records)
		require.Len(t, trends, 2)

		week17 := trends[0]
		assert.Equal(t, "17", week17.Week)
		assert.InDelta(t, 0.6, week17.TotalPickTime, 1e-9)
		assert.InDelta(t, 300, week17.TotalBins, 1e-9)
		assert.InDelta(t, 7.2, week17.AvgTimePerBin, 1e-9)
		assert.Equal(t, 2, week17.EmployeeCount)

		week18 := trends[1]
		assert.Equal(t, "18", week18.Week)
		assert.Equal(t, 1, week18.EmployeeCount)
	})

	t.Run("counts each employee once per week", func(t *testing.T) {
		records := []domain.Record{
			pick("J.DOE", "17", 0.1, 10),
			pick("J.DOE", "17", 0.1, 10),
		}

		trends := WeeklyTrends(records)
		require.Len(t, trends, 1)
		assert.Equal(t, 1, trends[0].EmployeeCount)
		assert.InDelta(t, 20, trends[0].TotalBins, 1e-9)
	})

	t.Run("ignores pack records and weekless picks", func(t *testing.T) {
		records := []domain.Record{
			pack("B.JONES", "17", 100, 3),
			pick("J.DOE", "", 1, 100),
		}

		trends := WeeklyTrends(records)
		assert.Empty(t, trends)
	})

	t.Run("sorts weeks numerically", func(t *testing.T) {
		records := []domain.Record{
			pick("J.DOE", "10", 1, 100),
			pick("J.DOE", "9", 1, 100),
			pick("J.DOE", "2", 1, 100),
		}

		trends := WeeklyTrends(records)
		require.Len(t, trends, 3)
		assert.Equal(t, "2", trends[0].Week)
		assert.Equal(t, "9", trends[1].Week)
		assert.Equal(t, "10", trends[2].Week)
	})

	t.Run("zero bins degrade to zero average", func(t *testing.T) {
		trends := WeeklyTrends([]domain.Record{pick("J.DOE", "17", 1, 0)})
		require.Len(t, trends, 1)
		assert.Zero(t, trends[0].AvgTimePerBin)
	})
}
