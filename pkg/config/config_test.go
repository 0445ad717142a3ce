package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/typr/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	config, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.Server, reloaded.Server)
	assert.Equal(t, config.Dict, reloaded.Dict)
	assert.Equal(t, config.CLI, reloaded.CLI)
	assert.Equal(t, config.Input.Locale, reloaded.Input.Locale)
	assert.Empty(t, reloaded.Input.Combiners)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 20
reload_every = 0

[dict]
path = "/usr/share/typr/fr.bin"
min_probability = 40

[input]
locale = "ko_KR"
combiners = ["dead_key", "hangul"]

[cli]
show_feedback = false
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 20, config.Server.MaxLimit)
	assert.Equal(t, 0, config.Server.ReloadEvery)
	assert.Equal(t, 60, config.Server.MaxPrefix, "missing keys keep defaults")
	assert.Equal(t, "/usr/share/typr/fr.bin", config.Dict.Path)
	assert.Equal(t, 40, config.Dict.MinProbability)
	assert.Equal(t, "ko_KR", config.Input.Locale)
	assert.Equal(t, []event.CombinerKind{event.CombinerDeadKey, event.CombinerHangul}, config.CombinerKinds())
	assert.False(t, config.CLI.ShowFeedback)
	assert.Equal(t, 10, config.CLI.DefaultLimit)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = "lots"
min_prefix = 2

[input]
combiners = ["hangul", 3]
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 64, config.Server.MaxLimit)
	assert.Equal(t, 2, config.Server.MinPrefix)
	assert.Equal(t, []string{"hangul"}, config.Input.Combiners)
}

func TestLoadConfigBrokenSyntax(t *testing.T) {
	path := writeConfig(t, "[server\nmax_limit = ")
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestCombinerKindsFallback(t *testing.T) {
	testCases := []struct {
		locale      string
		combiners   []string
		expected    []event.CombinerKind
		description string
	}{
		{"en_US", nil, []event.CombinerKind{event.CombinerDeadKey}, "locale default"},
		{"ko_KR", []string{}, []event.CombinerKind{event.CombinerHangul}, "korean default"},
		{"", nil, []event.CombinerKind{event.CombinerPassThrough}, "no locale"},
		{"ko_KR", []string{"telex"}, []event.CombinerKind{event.CombinerHangul}, "only unknown names"},
		{"fr_FR", []string{"pass_through", "telex"}, []event.CombinerKind{event.CombinerPassThrough}, "unknown name dropped"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			config := DefaultConfig()
			config.Input.Locale = tc.locale
			config.Input.Combiners = tc.combiners
			assert.Equal(t, tc.expected, config.CombinerKinds())
		})
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[cli]\ndefault_limit = 3\n")
	config, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, config.CLI.DefaultLimit)
	assert.Equal(t, path, GetActiveConfigPath(path))
	assert.Equal(t, "builtin defaults", GetActiveConfigPath(""))
}
