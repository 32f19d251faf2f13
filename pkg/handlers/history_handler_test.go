package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/models"
)

type stubHistory struct {
	entries        []models.MappingHistoryEntry
	stats          models.MappingStats
	cleanedUpDays  int
	cleanupRemoved int
	cleared        bool
}

func (s *stubHistory) Save(_ context.Context, entry models.MappingHistoryEntry) models.MappingHistoryEntry {
	s.entries = append([]models.MappingHistoryEntry{entry}, s.entries...)
	return entry
}

func (s *stubHistory) LoadAll(_ context.Context) []models.MappingHistoryEntry {
	return s.entries
}

func (s *stubHistory) FindSimilar(_ context.Context, _, _ []string, _ string) []models.MappingHistoryEntry {
	return nil
}

func (s *stubHistory) SuggestFromHistory(_ context.Context, _, _ []string, _ string) []models.ColumnMapping {
	return nil
}

func (s *stubHistory) Cleanup(_ context.Context, daysToKeep int) int {
	s.cleanedUpDays = daysToKeep
	return s.cleanupRemoved
}

func (s *stubHistory) Stats(_ context.Context) models.MappingStats {
	return s.stats
}

func (s *stubHistory) Clear(_ context.Context) {
	s.cleared = true
	s.entries = nil
}

func newHistoryTestServer(history *stubHistory) *httptest.Server {
	mux := http.NewServeMux()
	NewHistoryHandler(history, 30, zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestHistoryHandler_List(t *testing.T) {
	history := &stubHistory{
		entries: []models.MappingHistoryEntry{
			{ID: "e1", FileName: "contacts.csv"},
			{ID: "e2", FileName: "orders.csv"},
		},
	}
	server := newHistoryTestServer(history)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Entries []models.MappingHistoryEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "e1", result.Entries[0].ID)
}

func TestHistoryHandler_List_EmptyIsArray(t *testing.T) {
	server := newHistoryTestServer(&stubHistory{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, "[]", string(raw["entries"]))
}

func TestHistoryHandler_Clear(t *testing.T) {
	history := &stubHistory{entries: []models.MappingHistoryEntry{{ID: "e1"}}}
	server := newHistoryTestServer(history)
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/history", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, history.cleared)
}

func TestHistoryHandler_RejectsUnknownMethod(t *testing.T) {
	server := newHistoryTestServer(&stubHistory{})
	defer server.Close()

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/history", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHistoryHandler_Stats(t *testing.T) {
	history := &stubHistory{
		stats: models.MappingStats{
			TotalMappings:      4,
			SuccessfulMappings: 3,
			Databases:          []string{"db-1", "db-2"},
			AvgMappingsPerFile: 2.5,
		},
	}
	server := newHistoryTestServer(history)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/history/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats models.MappingStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 4, stats.TotalMappings)
	assert.Equal(t, []string{"db-1", "db-2"}, stats.Databases)
}

func TestHistoryHandler_Cleanup(t *testing.T) {
	history := &stubHistory{cleanupRemoved: 7}
	server := newHistoryTestServer(history)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/history/cleanup", CleanupRequest{DaysToKeep: 14})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 7, result["removed"])
	assert.Equal(t, 14, history.cleanedUpDays)
}

func TestHistoryHandler_Cleanup_DefaultsRetention(t *testing.T) {
	history := &stubHistory{}
	server := newHistoryTestServer(history)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/history/cleanup", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 30, history.cleanedUpDays)
}
