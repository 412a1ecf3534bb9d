package http

import (
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "pickpulse/internal/errors"
	"pickpulse/pkg/contracts/domain"
)

func newStatsServer(fake *fakeDataService) *httptest.Server {
	logger := testLogger()
	handler := NewStatsHandler(fake, logger, apierrors.NewErrorHandler(logger, false))
	return httptest.NewServer(handler.Routes())
}

func TestGetEmployeePerformances(t *testing.T) {
	fake := &fakeDataService{
		performances: []domain.EmployeePerformance{
			{Employee: "J.DOE", TotalBins: 300, AvgTimePerBin: 18, Efficiency: domain.EfficiencyLevel3, Weeks: []string{"17"}},
		},
	}
	server := newStatsServer(fake)
	defer server.Close()

	t.Run("returns the aggregate envelope", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/employees")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		payload := decodeJSON(t, resp.Body)
		assert.Equal(t, "success", payload["status"])
		assert.Equal(t, float64(1), payload["count"])
	})

	t.Run("passes filters through to the service", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/employees?efficiency=level3&min_bins=100")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, domain.EfficiencyLevel3, fake.lastPerformanceFilter.Efficiency)
		assert.Equal(t, 100.0, fake.lastPerformanceFilter.MinBins)
	})

	t.Run("rejects an unknown efficiency tier", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/employees?efficiency=level9")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects a malformed min_bins", func(t *testing.T) {
		for _, raw := range []string{"abc", "-5"} {
			resp, err := http.Get(server.URL + "/employees?min_bins=" + raw)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "min_bins=%s", raw)
		}
	})
}

func TestGetEmployeeNames(t *testing.T) {
	fake := &fakeDataService{names: []string{"A.SMITH", "J.DOE"}}
	server := newStatsServer(fake)
	defer server.Close()

	resp, err := http.Get(server.URL + "/employees/names")
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := decodeJSON(t, resp.Body)
	assert.Equal(t, float64(2), payload["count"])
	assert.Equal(t, []interface{}{"A.SMITH", "J.DOE"}, payload["data"])
}

func TestGetWeeklyTrends(t *testing.T) {
	fake := &fakeDataService{
		trends: []domain.WeeklyTrend{
			{Week: "17", TotalPickTime: 0.6, TotalBins: 300, AvgTimePerBin: 7.2, EmployeeCount: 2},
		},
	}
	server := newStatsServer(fake)
	defer server.Close()

	resp, err := http.Get(server.URL + "/trends")
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := decodeJSON(t, resp.Body)
	assert.Equal(t, float64(1), payload["count"])
	trend := payload["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "17", trend["week"])
	assert.Equal(t, 7.2, trend["avg_time_per_bin"])
}

func TestGetRecords(t *testing.T) {
	fake := &fakeDataService{
		records: []domain.Record{
			domain.PickRecord{ID: "a", Employee: "J.DOE", Week: "17"},
		},
	}
	server := newStatsServer(fake)
	defer server.Close()

	t.Run("passes filters through to the service", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/records?kind=pick&employee=j.doe&week=17")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, domain.KindPick, fake.lastRecordFilter.Kind)
		assert.Equal(t, "j.doe", fake.lastRecordFilter.Employee)
		assert.Equal(t, "17", fake.lastRecordFilter.Week)
	})

	t.Run("rejects an unknown kind", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/records?kind=shelve")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExportCSV(t *testing.T) {
	fake := &fakeDataService{
		performances: []domain.EmployeePerformance{
			{Employee: "J.DOE", TotalPickTime: 1.5, TotalBins: 300, AvgTimePerBin: 18, Weeks: []string{"17"}, Efficiency: domain.EfficiencyLevel3},
		},
		trends: []domain.WeeklyTrend{
			{Week: "17", TotalPickTime: 0.6, TotalBins: 300, AvgTimePerBin: 7.2, EmployeeCount: 1},
		},
	}
	server := newStatsServer(fake)
	defer server.Close()

	t.Run("defaults to the employees dataset", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/export")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "employee_performance.csv")

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"), "UTF-8 BOM for Excel")

		reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")))
		rows, err := reader.ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Employee", rows[0][0])
		assert.Equal(t, "J.DOE", rows[1][0])
	})

	t.Run("exports trends", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/export?dataset=trends")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Contains(t, resp.Header.Get("Content-Disposition"), "weekly_trends.csv")
	})

	t.Run("rejects an unknown dataset", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/export?dataset=bogus")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
