package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/config"
	"github.com/gridbase-inc/import-engine/pkg/models"
)

func newMatchTestServer() *httptest.Server {
	matching := config.MatchingConfig{
		ExactWeight:    0.4,
		FuzzyWeight:    0.3,
		SoundexWeight:  0.15,
		TimeWeight:     0.1,
		PatternWeight:  0.05,
		ScoreThreshold: 0.3,
	}
	mux := http.NewServeMux()
	NewMatchHandler(matching, zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestMatchHandler_Match(t *testing.T) {
	server := newMatchTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/match", MatchRequest{
		SourceRecords: []MatchRecordInput{
			{ID: "s1", Fields: map[string]any{"name": "John Smith", "city": "Berlin"}},
		},
		TargetRecords: []MatchRecordInput{
			{ID: "t1", Fields: map[string]any{"name": "John Smith", "city": "Berlin"}},
			{ID: "t2", Fields: map[string]any{"name": "Zq Xv", "city": "Ulaanbaatar"}},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result MatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	// Only the identical pair clears the default threshold.
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "s1", result.Matches[0].SourceID)
	assert.Equal(t, "t1", result.Matches[0].TargetID)
	assert.InDelta(t, 1.0, result.Matches[0].Score, 1e-9)
	assert.Equal(t, models.MatchConfidenceHigh, result.Matches[0].Confidence)
}

func TestMatchHandler_Match_SortedByScore(t *testing.T) {
	server := newMatchTestServer()
	defer server.Close()

	zero := 0.0
	resp := postJSON(t, server.URL+"/api/match", MatchRequest{
		SourceRecords: []MatchRecordInput{
			{ID: "s1", Fields: map[string]any{"name": "Smith"}},
		},
		TargetRecords: []MatchRecordInput{
			{ID: "t1", Fields: map[string]any{"name": "Smyth"}},
			{ID: "t2", Fields: map[string]any{"name": "Smith"}},
		},
		Threshold: &zero,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result MatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "t2", result.Matches[0].TargetID)
	assert.GreaterOrEqual(t, result.Matches[0].Score, result.Matches[1].Score)
}

func TestMatchHandler_Match_CustomThreshold(t *testing.T) {
	server := newMatchTestServer()
	defer server.Close()

	high := 0.99
	resp := postJSON(t, server.URL+"/api/match", MatchRequest{
		SourceRecords: []MatchRecordInput{
			{ID: "s1", Fields: map[string]any{"name": "Smith"}},
		},
		TargetRecords: []MatchRecordInput{
			{ID: "t1", Fields: map[string]any{"name": "Smyth"}},
		},
		Threshold: &high,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result MatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result.Matches)
}

func TestMatchHandler_Match_CustomWeights(t *testing.T) {
	server := newMatchTestServer()
	defer server.Close()

	zero := 0.0
	resp := postJSON(t, server.URL+"/api/match", MatchRequest{
		SourceRecords: []MatchRecordInput{
			{ID: "s1", Fields: map[string]any{"name": "Alice"}},
		},
		TargetRecords: []MatchRecordInput{
			{ID: "t1", Fields: map[string]any{"name": "alice"}},
		},
		Weights:   &models.StrategyWeights{Exact: 1},
		Threshold: &zero,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result MatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Matches, 1)
	assert.InDelta(t, 1.0, result.Matches[0].Score, 1e-9)
}

func TestMatchHandler_Match_RejectsGet(t *testing.T) {
	server := newMatchTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/match")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMatchHandler_Match_EmptyBody(t *testing.T) {
	server := newMatchTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/match", MatchRequest{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result MatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result.Matches)
}
