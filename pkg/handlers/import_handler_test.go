package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gridbase-inc/import-engine/pkg/models"
	"github.com/gridbase-inc/import-engine/pkg/services"
)

type stubAdvisor struct {
	suggestion services.MappingSuggestion
	confirmed  []models.MappingHistoryEntry
}

func (s *stubAdvisor) SuggestMappings(_ context.Context, _ services.SuggestRequest) services.MappingSuggestion {
	return s.suggestion
}

func (s *stubAdvisor) ConfirmImport(_ context.Context, entry models.MappingHistoryEntry) models.MappingHistoryEntry {
	entry.ID = "stub-id"
	s.confirmed = append(s.confirmed, entry)
	return entry
}

func newImportTestServer(advisor services.ImportAdvisor) *httptest.Server {
	mux := http.NewServeMux()
	NewImportHandler(advisor, zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestImportHandler_InferTypes(t *testing.T) {
	server := newImportTestServer(&stubAdvisor{})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/import/infer", InferTypesRequest{
		Columns: []SampledColumn{
			{Name: "email", Samples: []any{"a@b.com", "c@d.org"}},
			{Name: "age", Samples: []any{float64(30), float64(45)}},
			{Name: "status", Samples: []any{"active", "inactive", "active"}},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Columns []InferredColumn `json:"columns"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Columns, 3)
	assert.Equal(t, models.SemanticTypeEmail, result.Columns[0].Type)
	assert.Equal(t, models.SemanticTypeNumber, result.Columns[1].Type)
	assert.Equal(t, models.SemanticTypeSelect, result.Columns[2].Type)
}

func TestImportHandler_InferTypes_TruncatesLoggedSamples(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mux := http.NewServeMux()
	NewImportHandler(&stubAdvisor{}, zap.New(core)).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	long := strings.Repeat("x", 200)
	resp := postJSON(t, server.URL+"/api/import/infer", InferTypesRequest{
		Columns: []SampledColumn{{Name: "notes", Samples: []any{long}}},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs.FilterMessage("Inferred column type").All()
	require.Len(t, entries, 1)
	logged := entries[0].ContextMap()["first_sample"].(string)
	assert.Equal(t, strings.Repeat("x", 64)+"...", logged)
}

func TestImportHandler_InferTypes_RejectsGet(t *testing.T) {
	server := newImportTestServer(&stubAdvisor{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/import/infer")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestImportHandler_InferTypes_InvalidBody(t *testing.T) {
	server := newImportTestServer(&stubAdvisor{})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/import/infer", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportHandler_AnalyzeQuality(t *testing.T) {
	server := newImportTestServer(&stubAdvisor{})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/import/analyze", AnalyzeQualityRequest{
		Rows: []map[string]any{
			{"name": "Alice", "city": "Berlin"},
			{"name": "Bob", "city": nil},
			{"name": "Carol", "city": "Madrid"},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report models.DataQualityReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Len(t, report.Columns, 2)
	assert.Greater(t, report.OverallScore, 0.0)
}

func TestImportHandler_SuggestMappings(t *testing.T) {
	advisor := &stubAdvisor{
		suggestion: services.MappingSuggestion{
			Mappings: []models.ColumnMapping{
				{SourceColumn: "Name", TargetColumn: "full_name", Confidence: 0.95},
			},
			Source: services.SuggestionSourceHistory,
		},
	}
	server := newImportTestServer(advisor)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/import/suggest", services.SuggestRequest{
		SourceColumns: []string{"Name"},
		TargetColumns: []string{"full_name"},
		DatabaseID:    "db-1",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var suggestion services.MappingSuggestion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&suggestion))
	assert.Equal(t, services.SuggestionSourceHistory, suggestion.Source)
	require.Len(t, suggestion.Mappings, 1)
	assert.Equal(t, "full_name", suggestion.Mappings[0].TargetColumn)
}

func TestImportHandler_SuggestMappings_EmptyIsArray(t *testing.T) {
	server := newImportTestServer(&stubAdvisor{
		suggestion: services.MappingSuggestion{Source: services.SuggestionSourceNameMatch},
	})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/import/suggest", services.SuggestRequest{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, "[]", string(raw["mappings"]))
}

func TestImportHandler_ConfirmImport(t *testing.T) {
	advisor := &stubAdvisor{}
	server := newImportTestServer(advisor)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/import/confirm", ConfirmImportRequest{
		SourceColumns: []string{"Name", "Email"},
		TargetColumns: []string{"name", "email"},
		Mapping:       map[string]string{"Name": "name", "Email": "email"},
		DatabaseID:    "db-1",
		FileName:      "contacts.csv",
		UserID:        "user-7",
		Successful:    true,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var saved models.MappingHistoryEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, "stub-id", saved.ID)
	assert.Equal(t, "contacts.csv", saved.FileName)

	require.Len(t, advisor.confirmed, 1)
	assert.True(t, advisor.confirmed[0].Successful)
}
