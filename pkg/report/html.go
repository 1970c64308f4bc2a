package report

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/andrew/llm-eval/pkg/models"
)

// SaveHTML writes the answer set as an HTML table. Cell content is
// escaped so model output cannot inject markup, and embedded newlines
// become explicit <br> line breaks.
func SaveHTML(data []models.QuestionAnswers, path string) error {
	cols := tableLayout(data)

	// Evenly sized columns, matching the header cell count.
	cellCount := 1
	for _, col := range cols {
		cellCount++
		if col.hasGenerate {
			cellCount++
		}
		if col.hasRetrieval {
			cellCount++
		}
	}
	cellStyle := fmt.Sprintf(`style="padding: 8px; vertical-align: top; width: %d%%;"`, 100/cellCount)

	var b strings.Builder
	b.WriteString(`<table border="1" style="width: 100%; border-collapse: collapse;">` + "\n")

	b.WriteString("<tr>")
	writeHTMLCell(&b, "th", cellStyle, "Question")
	for _, col := range cols {
		writeHTMLCell(&b, "th", cellStyle, col.model)
		if col.hasGenerate {
			writeHTMLCell(&b, "th", cellStyle, col.model+" Generation Duration")
		}
		if col.hasRetrieval {
			writeHTMLCell(&b, "th", cellStyle, col.model+" Retrieval Duration")
		}
	}
	b.WriteString("</tr>\n")

	for _, qa := range data {
		b.WriteString("<tr>")
		writeHTMLCell(&b, "td", cellStyle, qa.Question)
		for i, col := range cols {
			ans := models.Answer{RetrievalDuration: models.NoDuration, GenerationDuration: models.NoDuration}
			if i < len(qa.Answers) {
				ans = qa.Answers[i]
			}
			writeHTMLCell(&b, "td", cellStyle, ans.Answer)
			if col.hasGenerate {
				writeHTMLCell(&b, "td", cellStyle, formatDuration(ans.GenerationDuration))
			}
			if col.hasRetrieval {
				writeHTMLCell(&b, "td", cellStyle, formatDuration(ans.RetrievalDuration))
			}
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeHTMLCell(b *strings.Builder, tag, style, content string) {
	escaped := strings.ReplaceAll(html.EscapeString(content), "\n", "<br>")
	fmt.Fprintf(b, "<%s %s>%s</%s>", tag, style, escaped, tag)
}
