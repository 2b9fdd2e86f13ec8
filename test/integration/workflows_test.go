//go:build integration

package integration

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkflow_SessionLifecycle logs in, reads data, logs out and checks that
// a request without a session is rejected and reported.
func TestWorkflow_SessionLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	// 1. Login stores the token
	require.NoError(t, runner.Login())

	_, err := os.Stat(runner.credentials)
	require.NoError(t, err, "credentials file should exist after login")

	// 2. Token status
	stdout, stderr, err := runner.Run("token", "--output", "json")
	require.NoError(t, err, "Failed to show token: %s", stderr)
	AssertJSONOutput(t, stdout)

	var status struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &status))
	assert.True(t, status.Valid)

	// 3. Who am I
	stdout, stderr, err = runner.Run("whoami", "--output", "json")
	require.NoError(t, err, "Failed to get current user: %s", stderr)
	assert.Contains(t, stdout, config.Email)

	// 4. Logout removes the token
	stdout, stderr, err = runner.Run("logout")
	require.NoError(t, err, "Failed to log out: %s", stderr)
	assert.Contains(t, stdout, "Logged out")

	// 5. Without a session the backend answers 401
	_, stderr, err = runner.Run("farmers", "list")
	require.Error(t, err)
	assert.Contains(t, stderr, "Invalid or expired token")
	assert.Contains(t, stderr, "Session expired, please log in again")
}

// TestWorkflow_ReadOnlyListings lists every collection in each output format.
func TestWorkflow_ReadOnlyListings(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.Login())

	for _, collection := range []string{"farmers", "purchases", "loans", "staff", "transactions"} {
		t.Run(collection, func(t *testing.T) {
			stdout, stderr, err := runner.Run(collection, "list", "--per-page", "5", "--output", "json")
			require.NoError(t, err, "Failed to list %s: %s", collection, stderr)
			AssertJSONOutput(t, stdout)

			stdout, stderr, err = runner.Run(collection, "list", "--per-page", "5", "--output", "yaml")
			require.NoError(t, err, "Failed to list %s as YAML: %s", collection, stderr)
			AssertYAMLOutput(t, stdout)

			_, stderr, err = runner.Run(collection, "list", "--per-page", "5")
			require.NoError(t, err, "Failed to list %s as a table: %s", collection, stderr)
		})
	}
}

// TestWorkflow_Payroll fetches the current month's payroll.
func TestWorkflow_Payroll(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.Login())

	stdout, stderr, err := runner.Run("staff", "payroll", "--output", "json")
	require.NoError(t, err, "Failed to get payroll: %s", stderr)
	AssertJSONOutput(t, stdout)

	_, stderr, err = runner.Run("staff", "payroll", "not-a-month")
	require.Error(t, err)
	assert.Contains(t, stderr, "YYYY-MM")
}
