package resume

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/spf13/afero"
)

// Load reads the candidate's resume from the given path and returns its
// plain text. PDF files are extracted page by page; anything else is
// treated as plain text. The result is whitespace-normalized.
func Load(fs afero.Fs, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("resume path is empty")
	}

	if _, err := fs.Stat(path); err != nil {
		return "", fmt.Errorf("resume file: %w", err)
	}

	var (
		text string
		err  error
	)

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = extractPDF(fs, path)
	} else {
		text, err = readPlainText(fs, path)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("resume file %q contains no text", path)
	}

	return text, nil
}

func readPlainText(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	return string(data), nil
}

func extractPDF(fs afero.Fs, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open resume pdf: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat resume pdf: %w", err)
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", fmt.Errorf("parse resume pdf: %w", err)
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not lose the rest.
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	return builder.String(), nil
}

// CleanText trims the text and drops empty lines.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
