package csvio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

func TestReadEntriesSingleColumn(t *testing.T) {
	in := strings.NewReader("sk-aaa\ngsk_bbb\n\nsk-ccc\n")
	entries, err := ReadEntries(in)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, core.Entry{Secret: "sk-aaa"}, entries[0])
	assert.Empty(t, entries[1].ProviderName)
}

func TestReadEntriesTwoColumns(t *testing.T) {
	in := strings.NewReader("openai,sk-aaa\nanthropic,sk-ant-bbb\n")
	entries, err := ReadEntries(in)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, core.Entry{ProviderName: "openai", Secret: "sk-aaa"}, entries[0])
	assert.Equal(t, core.Entry{ProviderName: "anthropic", Secret: "sk-ant-bbb"}, entries[1])
}

func TestReadEntriesSkipsHeader(t *testing.T) {
	in := strings.NewReader("provider,api_key\nopenai,sk-aaa\n")
	entries, err := ReadEntries(in)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sk-aaa", entries[0].Secret)
}

func TestReadEntriesMixedWidths(t *testing.T) {
	in := strings.NewReader("sk-aaa\nopenai,sk-bbb\n")
	entries, err := ReadEntries(in)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestReadEntriesEmptyInput(t *testing.T) {
	_, err := ReadEntries(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoEntries)

	_, err = ReadEntries(strings.NewReader("key\n"))
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestWriteReports(t *testing.T) {
	reports := []core.Report{
		{
			Provider: "OpenAI",
			Validity: core.Valid,
			Message:  "OpenAI API key is valid.",
			Hint:     "sk-a…zzzz",
			Fields:   []core.Field{{Name: "model_count", Value: "42"}},
			Summary:  &core.AccountSummary{Plan: "Pay-as-you-go"},
		},
		{
			Provider: "Groq",
			Validity: core.Invalid,
			Message:  "Invalid Groq API key.",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, reports))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "provider,key,is_valid,message,error,model_count,plan", lines[0])
	assert.Contains(t, lines[1], "OpenAI")
	assert.Contains(t, lines[1], "valid")
	assert.Contains(t, lines[1], "42")
	assert.Contains(t, lines[1], "Pay-as-you-go")
	assert.Contains(t, lines[2], "invalid")

	// The redacted hint, never the raw secret, goes to the key column.
	assert.NotContains(t, buf.String(), "sk-aaaa")
}

func TestReadEntriesFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.csv")
	require.NoError(t, os.WriteFile(path, []byte("provider,key\ngroq,gsk_abc\n"), 0o644))

	entries, err := ReadEntriesFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "groq", entries[0].ProviderName)

	_, err = ReadEntriesFile(filepath.Join(dir, "absent.csv"))
	assert.Error(t, err)
}
