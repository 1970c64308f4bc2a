package fileutil

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Download fetches rawURL and saves the response body as a file in dir.
// The file name is taken from the Content-Disposition header when the
// server provides one, otherwise derived from the URL with the scheme
// stripped and path separators replaced by dashes. Returns the name of
// the saved file.
func Download(ctx context.Context, client *http.Client, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid source URL %s: %w", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(rawURL)
	}

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return name, nil
}

// filenameFromDisposition extracts the filename parameter from a
// Content-Disposition header value. Returns "" when the header is
// absent, unparseable, or carries no usable name.
func filenameFromDisposition(cd string) string {
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// filenameFromURL flattens a URL into a single file name: scheme
// removed, slashes replaced by dashes.
func filenameFromURL(rawURL string) string {
	name := rawURL
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+len("://"):]
	}
	return strings.ReplaceAll(strings.Trim(name, "/"), "/", "-")
}
