// Package fileutil reads source documents for indexing.
package fileutil

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/andrew/llm-eval/pkg/models"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
)

// ReadText reads a file and returns its plain-text content. HTML files
// get their markup stripped and entities unescaped; everything else is
// treated as plain text.
func ReadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := string(raw)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text = StripHTML(text)
	}
	return text, nil
}

// StripHTML converts HTML markup to plain text: scripts and styles are
// dropped, tags removed, entities unescaped, and runs of spaces collapsed.
func StripHTML(content string) string {
	content = scriptRe.ReplaceAllString(content, " ")
	content = styleRe.ReplaceAllString(content, " ")
	content = tagRe.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	content = spaceRe.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

// ListFiles returns the names of files in dir with the given extension,
// in lexical order. The extension match is case-insensitive and ext
// includes the dot (".txt").
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadDocuments reads every matching file in dir into a Document, using
// the bare file name as the source identifier.
func ReadDocuments(dir, ext string) ([]models.Document, error) {
	names, err := ListFiles(dir, ext)
	if err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0, len(names))
	for _, name := range names {
		content, err := ReadText(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		docs = append(docs, models.Document{Source: name, Content: content})
	}
	return docs, nil
}
