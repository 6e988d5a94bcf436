package root

import (
	"bytes"
	"os"
	"path/filepath"
	"pilot/internal/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	conf := "persistence:\n" +
		"  dataDir: " + filepath.Join(dir, "data") + "\n" +
		"logger:\n" +
		"  dir: " + filepath.Join(dir, "logs") + "\n" +
		"ai:\n" +
		"  provider: offline\n"
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0600))
	return path
}

func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_GenerateCompleteStatus(t *testing.T) {
	config := writeTestConfig(t)

	out, err := run(t, config, "generate", "hopeful", "--note", "slept well")
	require.NoError(t, err)
	assert.Contains(t, out, "Hopeful")

	out, err = run(t, config, "complete")
	require.NoError(t, err)
	assert.Contains(t, out, "Current streak: 1")

	out, err = run(t, config, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "Completed: 1 of 1 (100%)")
}

func TestCLI_SecondGenerationHitsDailyLimit(t *testing.T) {
	config := writeTestConfig(t)

	_, err := run(t, config, "generate", "drained")
	require.NoError(t, err)

	_, err = run(t, config, "generate", "drained")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrQuotaExceeded)
	assert.Contains(t, errorText(err), "daily limit")
}

func TestCLI_GenerateRejectsUnknownMood(t *testing.T) {
	_, err := run(t, writeTestConfig(t), "generate", "ecstatic")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCLI_ChatSpendsCredit(t *testing.T) {
	config := writeTestConfig(t)

	_, err := run(t, config, "generate", "restless")
	require.NoError(t, err)

	out, err := run(t, config, "chat", "how", "do", "I", "start?")
	require.NoError(t, err)
	assert.Contains(t, out, "Start small")
	assert.Contains(t, out, "2 chat credits left")
}

func TestCLI_TierUnlocksRegenerate(t *testing.T) {
	config := writeTestConfig(t)

	_, err := run(t, config, "generate", "scattered")
	require.NoError(t, err)

	_, err = run(t, config, "regenerate")
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	out, err := run(t, config, "tier", "pro")
	require.NoError(t, err)
	assert.Contains(t, out, "Premium")

	out, err = run(t, config, "regenerate")
	require.NoError(t, err)
	assert.Contains(t, out, "version 2")
}

func TestCLI_ExportWritesJSON(t *testing.T) {
	config := writeTestConfig(t)

	_, err := run(t, config, "generate", "hopeful")
	require.NoError(t, err)

	out, err := run(t, config, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "["))
	assert.Contains(t, out, `"mood": "hopeful"`)
}

func TestCLI_ResetNeedsConfirmation(t *testing.T) {
	config := writeTestConfig(t)

	_, err := run(t, config, "generate", "hopeful")
	require.NoError(t, err)

	out, err := run(t, config, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "--yes")

	_, err = run(t, config, "reset", "--yes")
	require.NoError(t, err)

	out, err = run(t, config, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No task yet")
}

func TestCLI_VoiceOnFreeTierIsDenied(t *testing.T) {
	config := writeTestConfig(t)

	out, err := run(t, config, "voice")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 0 left")

	_, err = run(t, config, "voice", "checkin")
	assert.ErrorIs(t, err, models.ErrQuotaExceeded)
}
