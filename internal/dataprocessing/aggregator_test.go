package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/pkg/contracts/domain"
)

func pick(employee, week string, pickTimeHours, bins float64) domain.PickRecord {
	return domain.PickRecord{
		Employee:      employee,
		Week:          week,
		TotalPickTime: pickTimeHours,
		TotalBins:     bins,
	}
}

func pack(employee, week string, packs, timeHours float64) domain.PackRecord {
	return domain.PackRecord{
		Employee:   employee,
		Week:       week,
		TotalPacks: packs,
		TotalTime:  timeHours,
	}
}

func TestGenerateFromRecords_SumsAcrossWeeks(t *testing.T) {
	aggregator := NewAggregator(nil, AggregatorConfig{})

	records := []domain.Record{
		pick("J.DOE", "17", 0.9, 180),
		pick("J.DOE", "18", 0.6, 120),
	}

	performances := aggregator.GenerateFromRecords(context.Background(), records)
	require.Len(t, performances, 1)

	perf := performances[0]
	assert.Equal(t, "J.DOE", perf.Employee)
	assert.InDelta(t, 1.5, perf.TotalPickTime, 1e-9)
	assert.InDelta(t, 300, perf.TotalBins, 1e-9)
	assert.InDelta(t, 18, perf.AvgTimePerBin, 1e-9, "average derives from the summed totals")
	assert.Equal(t, domain.EfficiencyLevel3, perf.Efficiency)
	assert.Equal(t, []string{"17", "18"}, perf.Weeks)
	assert.False(t, perf.HasPackData())
}

func TestGenerateFromRecords_PackMetrics(t *testing.T) {
	aggregator := NewAggregator(nil, AggregatorConfig{})

	t.Run("pack sums carried when present", func(t *testing.T) {
		performances := aggregator.GenerateFromRecords(context.Background(), []domain.Record{
			pick("J.DOE", "17", 2, 200),
			pack("J.DOE", "17", 340, 6),
		})
		require.Len(t, performances, 1)
		assert.InDelta(t, 340, performances[0].TotalPacks, 1e-9)
		assert.InDelta(t, 6, performances[0].TotalPackTime, 1e-9)
		assert.True(t, performances[0].HasPackData())
	})

	t.Run("pack only employee classifies as neutral", func(t *testing.T) {
		performances := aggregator.GenerateFromRecords(context.Background(), []domain.Record{
			pack("B.JONES", "17", 100, 3),
		})
		require.Len(t, performances, 1)
		assert.Zero(t, performances[0].TotalBins)
		assert.Zero(t, performances[0].AvgTimePerBin)
		assert.Equal(t, domain.EfficiencyLevel2, performances[0].Efficiency)
	})

	t.Run("zero pack sums stay absent", func(t *testing.T) {
		performances := aggregator.GenerateFromRecords(context.Background(), []domain.Record{
			pick("J.DOE", "17", 1, 100),
			pack("J.DOE", "17", 0, 0),
		})
		require.Len(t, performances, 1)
		assert.False(t, performances[0].HasPackData())
	})
}

func TestGenerateFromRecords_Ordering(t *testing.T) {
	aggregator := NewAggregator(nil, AggregatorConfig{})

	// 18 s/bin -> level3, 30 s/bin -> level2, 60 s/bin -> level1.
	records := []domain.Record{
		pick("SLOW", "17", 5, 300),         // 60 s/bin
		pick("FAST.SMALL", "17", 0.5, 100), // 18 s/bin
		pick("MID", "17", 2.5, 300),        // 30 s/bin
		pick("FAST.BIG", "17", 1, 200),     // 18 s/bin
	}

	performances := aggregator.GenerateFromRecords(context.Background(), records)
	require.Len(t, performances, 4)

	names := []string{
		performances[0].Employee,
		performances[1].Employee,
		performances[2].Employee,
		performances[3].Employee,
	}
	assert.Equal(t, []string{"FAST.BIG", "FAST.SMALL", "MID", "SLOW"}, names,
		"tier rank descending, then total bins descending")
}

func TestGenerateFromRecords_TiesKeepInputOrder(t *testing.T) {
	aggregator := NewAggregator(nil, AggregatorConfig{})

	// Identical tier and bins: the stable sort must keep first-seen order.
	records := []domain.Record{
		pick("FIRST", "17", 1, 200),
		pick("SECOND", "17", 1, 200),
		pick("THIRD", "17", 1, 200),
	}

	performances := aggregator.GenerateFromRecords(context.Background(), records)
	require.Len(t, performances, 3)
	assert.Equal(t, "FIRST", performances[0].Employee)
	assert.Equal(t, "SECOND", performances[1].Employee)
	assert.Equal(t, "THIRD", performances[2].Employee)
}

func TestGenerateFromRecords_NameNormalization(t *testing.T) {
	records := []domain.Record{
		pick("J.DOE", "17", 1, 100),
		pick("  j.doe ", "18", 1, 100),
	}

	t.Run("off by default, spellings stay distinct", func(t *testing.T) {
		aggregator := NewAggregator(nil, AggregatorConfig{})
		performances := aggregator.GenerateFromRecords(context.Background(), records)
		assert.Len(t, performances, 2)
	})

	t.Run("on, spellings merge", func(t *testing.T) {
		aggregator := NewAggregator(nil, AggregatorConfig{NormalizeNames: true})
		performances := aggregator.GenerateFromRecords(context.Background(), records)
		require.Len(t, performances, 1)
		assert.Equal(t, "J.DOE", performances[0].Employee)
		assert.InDelta(t, 200, performances[0].TotalBins, 1e-9)
		assert.Equal(t, []string{"17", "18"}, performances[0].Weeks)
	})
}

func TestGenerateFromRecords_WeeklessRecords(t *testing.T) {
	aggregator := NewAggregator(nil, AggregatorConfig{})

	performances := aggregator.GenerateFromRecords(context.Background(), []domain.Record{
		pick("J.DOE", "", 1, 100),
	})
	require.Len(t, performances, 1)
	assert.Empty(t, performances[0].Weeks)
}

func TestGenerateFromRecords_Recomputes(t *testing.T) {
	aggregator := NewAggregator(nil, AggregatorConfig{})

	first := aggregator.GenerateFromRecords(context.Background(), []domain.Record{
		pick("J.DOE", "17", 1, 100),
	})
	second := aggregator.GenerateFromRecords(context.Background(), []domain.Record{
		pick("J.DOE", "17", 1, 100),
		pick("A.SMITH", "17", 1, 100),
	})

	assert.Len(t, first, 1)
	assert.Len(t, second, 2, "no state carries over between calls")
}

func TestAverageSecondsPerBin(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		bins  float64
		want  float64
	}{
		{name: "typical", hours: 1.5, bins: 300, want: 18},
		{name: "zero bins", hours: 2, bins: 0, want: 0},
		{name: "negative bins guard", hours: 2, bins: -5, want: 0},
		{name: "zero hours", hours: 0, bins: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AverageSecondsPerBin(tt.hours, tt.bins), 1e-9)
		})
	}
}

func TestLessWeek(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "numeric ascending", a: "2", b: "10", want: true},
		{name: "numeric descending", a: "10", b: "2", want: false},
		{name: "non numeric before numeric", a: "unknown", b: "2", want: true},
		{name: "numeric after non numeric", a: "2", b: "unknown", want: false},
		{name: "non numeric lexical", a: "a", b: "b", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lessWeek(tt.a, tt.b))
		})
	}
}
