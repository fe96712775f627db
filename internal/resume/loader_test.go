package resume

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlainText(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	content := "Dana Smith\n\n\n  Backend Engineer  \n\nGo, Kubernetes"
	require.NoError(t, afero.WriteFile(fs, "resume.txt", []byte(content), 0o644))

	text, err := Load(fs, "resume.txt")
	require.NoError(t, err)

	assert.Equal(t, "Dana Smith\nBackend Engineer\nGo, Kubernetes", text)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(afero.NewMemMapFs(), "nope.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume file")
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Load(afero.NewMemMapFs(), "   ")
	require.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "empty.txt", []byte("   \n \n"), 0o644))

	_, err := Load(fs, "empty.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains no text")
}

func TestLoadCorruptPDF(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "resume.pdf", []byte("not a pdf"), 0o644))

	_, err := Load(fs, "resume.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume pdf")
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "  \n\t\n ", expected: ""},
		{name: "collapses blank lines", input: "a\n\n\nb", expected: "a\nb"},
		{name: "trims line edges", input: "  a  \n  b  ", expected: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
