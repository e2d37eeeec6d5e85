// Package config loads server settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port               string `yaml:"port"`
	RunBudgetSeconds   int    `yaml:"run_budget_seconds"`
	TaskTimeoutSeconds int    `yaml:"task_timeout_seconds"`
	CheckpointDir      string `yaml:"checkpoint_dir"`
	CVDir              string `yaml:"cv_dir"`
	UploadDir          string `yaml:"upload_dir"`
	ApprovalRequired   bool   `yaml:"approval_required"`
	JobSearchAPIKey    string `yaml:"-"`
}

func Default() Config {
	return Config{
		Port:               "8080",
		RunBudgetSeconds:   300,
		TaskTimeoutSeconds: 60,
		CheckpointDir:      "data/checkpoints",
		CVDir:              "data/cvs",
		UploadDir:          "data/uploads",
		ApprovalRequired:   true,
	}
}

// Load reads path (when non-empty) over the defaults, then applies env
// overrides. A missing file at an explicitly configured path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("RUN_BUDGET_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RunBudgetSeconds = n
		}
	}
	if v := os.Getenv("TASK_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TaskTimeoutSeconds = n
		}
	}
	if v := os.Getenv("CHECKPOINT_DIR"); v != "" {
		c.CheckpointDir = v
	}
	if v := os.Getenv("CV_DIR"); v != "" {
		c.CVDir = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("APPROVAL_REQUIRED"); v != "" {
		c.ApprovalRequired = v == "1" || v == "true"
	}
	if v := os.Getenv("RAPID_API_KEY"); v != "" {
		c.JobSearchAPIKey = v
	}
}

func (c Config) RunBudget() time.Duration {
	return time.Duration(c.RunBudgetSeconds) * time.Second
}

func (c Config) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutSeconds) * time.Second
}
