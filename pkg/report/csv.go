package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/andrew/llm-eval/pkg/models"
)

// SaveCSV writes the answer set as a CSV table. One question per row,
// with answer and duration columns per model.
func SaveCSV(data []models.QuestionAnswers, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := tableLayout(data)

	header := []string{"Question"}
	for _, col := range cols {
		header = append(header, col.model)
		if col.hasGenerate {
			header = append(header, col.model+" Generation Duration")
		}
		if col.hasRetrieval {
			header = append(header, col.model+" Retrieval Duration")
		}
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, qa := range data {
		row := []string{qa.Question}
		for i, col := range cols {
			ans := models.Answer{RetrievalDuration: models.NoDuration, GenerationDuration: models.NoDuration}
			if i < len(qa.Answers) {
				ans = qa.Answers[i]
			}
			row = append(row, ans.Answer)
			if col.hasGenerate {
				row = append(row, formatDuration(ans.GenerationDuration))
			}
			if col.hasRetrieval {
				row = append(row, formatDuration(ans.RetrievalDuration))
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
