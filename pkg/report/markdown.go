package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/andrew/llm-eval/pkg/models"
)

// SaveMarkdown writes the answer set as a Markdown table. Literal pipe
// characters are escaped and embedded newlines become <br> so cells
// never break column alignment.
func SaveMarkdown(data []models.QuestionAnswers, path string) error {
	cols := tableLayout(data)

	var b strings.Builder

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
	writeMarkdownRow(&b, header)
	b.WriteString(strings.Repeat("| --- ", len(header)) + "|\n")

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
		writeMarkdownRow(&b, row)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	for _, cell := range cells {
		b.WriteString("| " + escapeMarkdown(cell) + " ")
	}
	b.WriteString("|\n")
}

// escapeMarkdown neutralises the characters that would break a table
// cell: pipes are escaped and newlines become explicit line breaks.
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "|", `\|`)
	return strings.ReplaceAll(text, "\n", "<br>")
}
