//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEndpoint string
	Email       string
	Password    string
	Portal      string
	BinaryPath  string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	portal := os.Getenv("AGRICONSOLE_IT_PORTAL")
	if portal == "" {
		portal = "admin"
	}

	return &TestConfig{
		APIEndpoint: os.Getenv("AGRICONSOLE_IT_API"),
		Email:       os.Getenv("AGRICONSOLE_IT_EMAIL"),
		Password:    os.Getenv("AGRICONSOLE_IT_PASSWORD"),
		Portal:      portal,
		BinaryPath:  getBinaryPath(),
		Verbose:     os.Getenv("AGRICONSOLE_IT_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the agriconsole binary
func getBinaryPath() string {
	if path := os.Getenv("AGRICONSOLE_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../agriconsole", "./agriconsole", "../agriconsole"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "agriconsole"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIEndpoint == "" || config.Email == "" || config.Password == "" {
		t.Skip("AGRICONSOLE_IT_API, AGRICONSOLE_IT_EMAIL or AGRICONSOLE_IT_PASSWORD not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("agriconsole binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the CLI against an isolated config directory so tests
// never touch the operator's own session.
type CommandRunner struct {
	config      *TestConfig
	t           *testing.T
	configFile  string
	credentials string
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	dir := t.TempDir()

	return &CommandRunner{
		config:      config,
		t:           t,
		configFile:  filepath.Join(dir, "config.yml"),
		credentials: filepath.Join(dir, "credentials.yml"),
	}
}

// Run executes an agriconsole command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile, "--api", runner.config.APIEndpoint}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...)
	cmd.Env = append(os.Environ(), "AGRICONSOLE_CREDENTIALS_FILE="+runner.credentials)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login authenticates with the configured account
func (runner *CommandRunner) Login() error {
	_, stderr, err := runner.Run("login",
		"--portal", runner.config.Portal,
		"--email", runner.config.Email,
		"--password", runner.config.Password)
	if err != nil {
		return fmt.Errorf("failed to log in: %s", stderr)
	}

	return nil
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not valid JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var document interface{}
	if err := yaml.Unmarshal([]byte(output), &document); err != nil || document == nil {
		t.Errorf("Output is not valid YAML: %s", output)
	}
}
