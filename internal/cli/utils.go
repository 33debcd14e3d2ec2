// Package cli provides output formatting for the Kotae command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format name from a flag.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch name {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", response.Total, response.QueryTime)
	for i, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", i+1, result.Score)
		fmt.Fprintf(w, "Document: %s (chunk %d)\n", result.DocumentID, result.ChunkIndex)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Content, 200))
	}
	if response.Answer != nil {
		writeAnswerText(w, response.Answer)
	}
	return nil
}

// WriteAnswer writes a generated answer with its sources to w.
func WriteAnswer(w io.Writer, answer *models.AnswerWithSources, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}
	writeAnswerText(w, answer)
	return nil
}

func writeAnswerText(w io.Writer, answer *models.AnswerWithSources) {
	fmt.Fprintf(w, "\nAnswer (confidence %.2f):\n%s\n", answer.Confidence, answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for i, src := range answer.Sources {
			fmt.Fprintf(w, "  [%d] %s (chunk %d, score %.4f)\n", i+1, src.DocumentID, src.ChunkIndex, src.Score)
		}
	}
}
