package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/cfgrepair/internal/iologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersDoc = `{"tables":[{"name":"Users","columns":[` +
	`{"key":"age","required":true,"default":18},` +
	`{"key":"email","required":false,"default":"x@example.com"}]}]}`

// execute runs the root command with a temporary home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithHome(t, t.TempDir(), args...)
}

// executeWithHome runs the root command with the given home directory.
func executeWithHome(
	t *testing.T,
	home string,
	args ...string,
) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Cleanup(func() { iologger.Close() })

	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "cfgrepair", cmd.Name(),
		"Command name should be cfgrepair")
	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
}

// TestGetRootCmd_ShortVersionFlag verifies
// -V flag works.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-V"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "v1.2.3",
		"Version output should work with -V flag")
	assert.Contains(t, output, "abc123",
		"Version output should contain build")
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	output, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "cfgrepair")
	assert.Contains(t, output, "appwrite.config.json")
	assert.Contains(t, output, "--dry-run")
	assert.Contains(t, output, "CFGREPAIR_")
}

// TestRoot_RepairsGivenFile verifies the full run on one file.
func TestRoot_RepairsGivenFile(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "appwrite.config.json", usersDoc)

	output, err := execute(t, path)
	require.NoError(t, err)

	assert.Contains(t, output,
		"Removed default from required column age in table Users")
	assert.Contains(t, output, "Successfully updated "+path)

	doc := readDoc(t, path)
	assert.NotContains(t, doc, `"default": 18`)
	assert.Contains(t, doc, `"default": "x@example.com"`)
	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.HomeDir, "Home directory should be set")
}

// TestRoot_DefaultDocument verifies that without arguments the
// document in the working directory is repaired.
func TestRoot_DefaultDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "appwrite.config.json", usersDoc)
	t.Chdir(dir)

	output, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, output, "Successfully updated appwrite.config.json")
	assert.NotEqual(t, usersDoc, readDoc(t, path))

	output, err = execute(t)
	require.NoError(t, err)
	assert.Equal(t, "No changes needed\n", output)
}

// TestRoot_DryRun verifies that --dry-run does not write.
func TestRoot_DryRun(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.json", usersDoc)

	output, err := execute(t, "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, output, "would be updated")
	assert.Equal(t, usersDoc, readDoc(t, path))
}

// TestRoot_JSONReport verifies the json report format.
func TestRoot_JSONReport(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.json", usersDoc)

	output, err := execute(t, "-f", "json", path)
	require.NoError(t, err)

	var rep struct {
		Summary struct {
			Updated  int `json:"updated"`
			Removals int `json:"removals"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &rep))
	assert.Equal(t, 1, rep.Summary.Updated)
	assert.Equal(t, 1, rep.Summary.Removals)
}

// TestRoot_EnvReportFormat verifies environment variables reach
// the configuration.
func TestRoot_EnvReportFormat(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.json", `{}`)
	t.Setenv("CFGREPAIR_REPAIR_REPORT_FORMAT", "yaml")

	output, err := execute(t, path)
	require.NoError(t, err)
	assert.Contains(t, output, "path: "+path)
	assert.Contains(t, output, "unchanged: 1")
}

// TestRoot_InvalidDocument verifies that a broken document is
// reported with non-zero status and left alone.
func TestRoot_InvalidDocument(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.json", `{"tables": [`)

	output, err := execute(t, path)
	require.Error(t, err)
	assert.NotContains(t, output, "Successfully updated")
	assert.Equal(t, `{"tables": [`, readDoc(t, path))
}

// TestRoot_MissingDocument verifies a missing document is an error.
func TestRoot_MissingDocument(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "appwrite.config.json"))
	require.Error(t, err)
}

// TestRoot_ManyFiles verifies that one failed document does not stop
// the others.
func TestRoot_ManyFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "a.json", usersDoc)
	bad := writeDoc(t, dir, "b.json", `nope`)

	output, err := execute(t, "-j", "2", good, bad)
	require.Error(t, err)

	assert.Contains(t, output, "Successfully updated "+good)
	assert.Contains(t, output,
		"Processed 2 files: 1 updated, 0 unchanged, 1 failed")
	assert.NotEqual(t, usersDoc, readDoc(t, good))
	assert.Equal(t, "nope", readDoc(t, bad))
}

// TestRoot_NoSideFiles verifies that a run writes nothing but the
// repaired document.
func TestRoot_NoSideFiles(t *testing.T) {
	home := t.TempDir()
	dir := t.TempDir()
	path := writeDoc(t, dir, "appwrite.config.json", usersDoc)

	_, err := executeWithHome(t, home, path)
	require.NoError(t, err)
	assert.Equal(t, "stderr", cfg.Log.Destination)

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Empty(t, entries, "Home directory should stay empty")

	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "Only the document should be in its directory")
}

// TestRoot_HomeIsFile verifies that an unusable home directory does
// not stop the repair.
func TestRoot_HomeIsFile(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	require.NoError(t, os.WriteFile(home, []byte("x"), 0644))
	path := writeDoc(t, t.TempDir(), "appwrite.config.json", usersDoc)
	t.Setenv("CFGREPAIR_LOG_DESTINATION", "file")

	output, err := executeWithHome(t, home, path)
	require.NoError(t, err)
	assert.Contains(t, output, "Successfully updated "+path)
	assert.NotEqual(t, usersDoc, readDoc(t, path))
	assert.Equal(t, "stderr", cfg.Log.Destination,
		"Logs should fall back to stderr")
}

// TestRoot_InitConfig verifies that the config file is created only on
// request and is read afterwards.
func TestRoot_InitConfig(t *testing.T) {
	home := t.TempDir()
	cfgPath := filepath.Join(home, ".config", "cfgrepair", "config.yaml")

	_, err := executeWithHome(t, home, "--init-config")
	require.NoError(t, err)
	content := readDoc(t, cfgPath)
	assert.Contains(t, content, "repair:")

	custom := "repair:\n  report_format: yaml\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(custom), 0644))

	_, err = executeWithHome(t, home, "--init-config")
	require.NoError(t, err)
	assert.Equal(t, custom, readDoc(t, cfgPath),
		"Existing config file should not be overwritten")

	path := writeDoc(t, t.TempDir(), "doc.json", `{}`)
	output, err := executeWithHome(t, home, path)
	require.NoError(t, err)
	assert.Contains(t, output, "unchanged: 1",
		"Settings of config file should be used")
}

// TestRoot_FileLog verifies the log file is kept when asked for.
func TestRoot_FileLog(t *testing.T) {
	home := t.TempDir()
	path := writeDoc(t, t.TempDir(), "doc.json", usersDoc)
	t.Setenv("CFGREPAIR_LOG_DESTINATION", "file")

	_, err := executeWithHome(t, home, path)
	require.NoError(t, err)

	logPath := filepath.Join(home, ".local", "share", "cfgrepair", "logs",
		"cfgrepair.log")
	content := readDoc(t, logPath)
	assert.Contains(t, content, "Removed default from required column")

	_, err = os.Stat(filepath.Join(home, ".config"))
	assert.True(t, os.IsNotExist(err), "No config file should be created")
}
