package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernlea-labs/attest-cli/internal/adapters/driven/config/file"
)

func setupTestConfigStore(t *testing.T) func() {
	t.Helper()
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	oldConfigStore := configStore
	configStore = store
	return func() { configStore = oldConfigStore }
}

func TestConfigCmd_Use(t *testing.T) {
	assert.Equal(t, "config", configCmd.Use)
}

func TestConfigCmd_HasSubcommands(t *testing.T) {
	commands := configCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "path")
}

func TestConfigCmd_ErrorsWithoutStore(t *testing.T) {
	oldConfigStore := configStore
	configStore = nil
	defer func() { configStore = oldConfigStore }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "path"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestConfigSetAndGet(t *testing.T) {
	cleanup := setupTestConfigStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "export.output_dir", "/srv/exports"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Set export.output_dir")

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "get", "export.output_dir"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "/srv/exports")
}

func TestConfigGet_UnknownKey(t *testing.T) {
	cleanup := setupTestConfigStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "get", "no.such.key"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value for key no.such.key")
}

func TestConfigPath(t *testing.T) {
	cleanup := setupTestConfigStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "path"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "config.toml")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(3), parseValue("3"))
	assert.Equal(t, 0.95, parseValue("0.95"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "portrait", parseValue("portrait"))
	// Numeric strings stay numeric, never bool
	assert.Equal(t, int64(1), parseValue("1"))
}
