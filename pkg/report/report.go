// Package report exports an answer set in several formats. Every writer
// consumes the same canonical []models.QuestionAnswers; the only
// variance between formats is the target syntax.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrew/llm-eval/pkg/models"
)

// column describes one model's columns in the table-based formats.
// Duration columns appear only when at least one answer for that model
// reports the duration.
type column struct {
	model        string
	hasGenerate  bool
	hasRetrieval bool
}

// tableLayout derives the column set from the answer data. Models keep
// the order they appear in within each question.
func tableLayout(data []models.QuestionAnswers) []column {
	if len(data) == 0 {
		return nil
	}

	cols := make([]column, len(data[0].Answers))
	for i, ans := range data[0].Answers {
		cols[i].model = ans.Model
	}
	for _, qa := range data {
		for i, ans := range qa.Answers {
			if i >= len(cols) {
				break
			}
			if ans.GenerationDuration >= 0 {
				cols[i].hasGenerate = true
			}
			if ans.RetrievalDuration >= 0 {
				cols[i].hasRetrieval = true
			}
		}
	}
	return cols
}

// formatDuration renders a duration cell. The sentinel renders empty so
// a failed answer does not shift the row.
func formatDuration(seconds float64) string {
	if seconds < 0 {
		return ""
	}
	return fmt.Sprintf("%.4f", seconds)
}

// SaveJSON writes the answer set as an indented JSON array.
func SaveJSON(data []models.QuestionAnswers, path string) error {
	out, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
