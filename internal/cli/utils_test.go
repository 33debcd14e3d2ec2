package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    OutputFormat
		wantErr bool
	}{
		{"text", OutputText, false},
		{"", OutputText, false},
		{"json", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	response := &models.SearchResponse{
		Query:     "test query",
		QueryTime: 42,
		Total:     1,
		Results: []models.SearchResult{
			{Content: "Content here", Score: 0.9, DocumentID: "doc-1", ChunkIndex: 0},
		},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != response.Query || decoded.QueryTime != response.QueryTime {
		t.Errorf("decoded query=%q query_time=%d", decoded.Query, decoded.QueryTime)
	}
	if len(decoded.Results) != 1 || decoded.Results[0].DocumentID != "doc-1" {
		t.Errorf("decoded results: want one result for doc-1, got %+v", decoded.Results)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	response := &models.SearchResponse{
		Query:     "foo",
		QueryTime: 10,
		Total:     1,
		Results: []models.SearchResult{
			{Content: "Short content", Score: 0.5, DocumentID: "id1", ChunkIndex: 2},
		},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 1 results", "10ms", "Rank: 1", "id1", "chunk 2", "Short content"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_text_withAnswer(t *testing.T) {
	response := &models.SearchResponse{
		Query:     "bar",
		QueryTime: 5,
		Total:     1,
		Results: []models.SearchResult{
			{Content: "hit", Score: 0.8, DocumentID: "id2"},
		},
		Answer: &models.AnswerWithSources{
			Answer:     "The answer.",
			Confidence: 0.8,
			Sources: []models.SearchResult{
				{Content: "hit", Score: 0.8, DocumentID: "id2"},
			},
		},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Answer (confidence 0.80)", "The answer.", "Sources:", "id2"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected %q in output:\n%s", sub, out)
		}
	}
}

func TestWriteAnswer_JSON(t *testing.T) {
	answer := &models.AnswerWithSources{
		Answer:     "Yes.",
		Confidence: 0.7,
		Sources: []models.SearchResult{
			{Content: "source text", Score: 0.7, DocumentID: "d1"},
		},
	}
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, answer, OutputJSON); err != nil {
		t.Fatalf("WriteAnswer(json): %v", err)
	}
	var decoded models.AnswerWithSources
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Answer != "Yes." || decoded.Confidence != 0.7 || len(decoded.Sources) != 1 {
		t.Errorf("decoded %+v", decoded)
	}
}

func TestWriteAnswer_text_noSources(t *testing.T) {
	answer := &models.AnswerWithSources{
		Answer:     "No relevant documents were found for this question.",
		Sources:    []models.SearchResult{},
		Confidence: 0,
	}
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, answer, OutputText); err != nil {
		t.Fatalf("WriteAnswer(text): %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "confidence 0.00") {
		t.Errorf("expected zero confidence in output:\n%s", out)
	}
	if strings.Contains(out, "Sources:") {
		t.Errorf("no sources header expected:\n%s", out)
	}
}
