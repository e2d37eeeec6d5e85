package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 300*time.Second, cfg.RunBudget())
	assert.Equal(t, 60*time.Second, cfg.TaskTimeout())
	assert.Equal(t, "data/checkpoints", cfg.CheckpointDir)
	assert.True(t, cfg.ApprovalRequired)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
run_budget_seconds: 120
task_timeout_seconds: 30
checkpoint_dir: /var/lib/jobhunt/checkpoints
approval_required: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 120*time.Second, cfg.RunBudget())
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout())
	assert.Equal(t, "/var/lib/jobhunt/checkpoints", cfg.CheckpointDir)
	assert.False(t, cfg.ApprovalRequired)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("RUN_BUDGET_SECONDS", "45")
	t.Setenv("TASK_TIMEOUT_SECONDS", "bogus")
	t.Setenv("APPROVAL_REQUIRED", "false")
	t.Setenv("RAPID_API_KEY", "k-env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.RunBudget())
	// Unparseable override keeps the default.
	assert.Equal(t, 60*time.Second, cfg.TaskTimeout())
	assert.False(t, cfg.ApprovalRequired)
	assert.Equal(t, "k-env", cfg.JobSearchAPIKey)
}
