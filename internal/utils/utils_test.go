package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input       string
		expected    bool
		description string
	}{
		{"hel", true, "plain word"},
		{"caf\u00e9", true, "precomposed accent"},
		{"cafe\u0301", true, "combining accent"},
		{"한글", true, "hangul"},
		{"don't", true, "apostrophe"},
		{"", false, "empty"},
		{"1234", false, "digits only"},
		{"he$$o", false, "special characters"},
		{"caf´", false, "spacing accent"},
		{"dddd", false, "repetitive"},
		{"ㄱㄱㄱ", false, "repetitive jamo"},
		{"dd", true, "two repeats are fine"},
		{"\xff", false, "invalid utf-8"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidInput(tc.input))
		})
	}
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("Hel")
	assert.Equal(t, "hel", f.Input())
	assert.False(t, f.ShouldInclude("hel"))
	assert.True(t, f.ShouldInclude("help"))
	assert.False(t, f.ShouldInclude("HELP"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[input]
locale = "ko_KR"
combiners = ["hangul", 1]
[server]
max_limit = 8
debug = true
`), 0644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	input, ok := ExtractSection(data, "input")
	require.True(t, ok)
	locale, ok := ExtractString(input, "locale")
	assert.True(t, ok)
	assert.Equal(t, "ko_KR", locale)
	combiners, ok := ExtractStringSlice(input, "combiners")
	assert.True(t, ok)
	assert.Equal(t, []string{"hangul"}, combiners)

	server, ok := ExtractSection(data, "server")
	require.True(t, ok)
	limit, ok := ExtractInt64(server, "max_limit")
	assert.True(t, ok)
	assert.Equal(t, 8, limit)
	debug, ok := ExtractBool(server, "debug")
	assert.True(t, ok)
	assert.True(t, debug)
	_, ok = ExtractString(server, "max_limit")
	assert.False(t, ok)

	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)
}

func TestResolveDictPath(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "en.bin")
	require.NoError(t, os.WriteFile(dict, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))

	pr := NewPathResolver()
	resolved, found := pr.ResolveDictPath(dict)
	assert.True(t, found)
	assert.Equal(t, dict, resolved)

	_, found = pr.ResolveDictPath(filepath.Join(dir, "notes.md"))
	assert.False(t, found, "unknown extension")

	missing := filepath.Join(dir, "missing.bin")
	resolved, found = pr.ResolveDictPath(missing)
	assert.False(t, found)
	assert.Equal(t, missing, resolved)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	result := CheckDirStatus(dir)
	assert.NoError(t, result.Error)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)
	assert.False(t, FileExists(filepath.Join(dir, ".write_test")))
}
