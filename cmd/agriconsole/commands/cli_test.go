package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestline/agriconsole/internal/auth"
	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
)

// These tests share viper's global state and therefore do not run in parallel.

type cliEnv struct {
	dir         string
	credentials string
	configFile  string
}

func setupCLI(t *testing.T, handler http.HandlerFunc) cliEnv {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	env := cliEnv{dir: t.TempDir()}
	env.credentials = filepath.Join(env.dir, "credentials.yml")
	env.configFile = filepath.Join(env.dir, "config.yml")

	viper.SetConfigFile(env.configFile)
	viper.Set(keyCredentialsFile, env.credentials)
	viper.Set(keyRetryBaseDelay, "1ms")
	viper.Set(keyOutput, constants.FormatJSON)

	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)

		viper.Set(keyAPI, server.URL)
	}

	return env
}

func (e cliEnv) seedToken(t *testing.T, token string) {
	t.Helper()

	require.NoError(t, auth.NewFileTokenStore(e.credentials).Set(token, time.Hour))
}

func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(nil))

	// A nil slice makes cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestCLI_FarmersList(t *testing.T) {
	env := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/farmers", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "maize", r.URL.Query().Get("search"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"id": "f-1", "first_name": "Amina", "last_name": "Njoroge", "status": "active", "farm_size_ha": 2.5}],
			"pagination": {"page": 1, "per_page": 20, "total": 1, "total_pages": 1}
		}`))
	})
	env.seedToken(t, "test-token")

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(NewFarmersCommand(), "list", "--search", "maize")
		require.NoError(t, err)

		var farmers console.ListResponse[console.Farmer]
		require.NoError(t, json.Unmarshal([]byte(stdout), &farmers))
		require.Len(t, farmers.Data, 1)
		assert.Equal(t, "Amina", farmers.Data[0].FirstName)
	})

	t.Run("table", func(t *testing.T) {
		viper.Set(keyOutput, constants.FormatTable)

		stdout, _, err := execute(NewFarmersCommand(), "list", "--search", "maize")
		require.NoError(t, err)

		assert.Contains(t, stdout, "Amina Njoroge")
		assert.Contains(t, stdout, "Active")
		assert.Contains(t, stdout, "2.50")
	})
}

func TestCLI_Unauthorized(t *testing.T) {
	var calls atomic.Int32

	env := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		w.WriteHeader(http.StatusUnauthorized)
	})
	env.seedToken(t, "stale-token")

	_, stderr, err := execute(NewLoansCommand(), "get", "loan-7")
	require.Error(t, err)

	var apiErr *console.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, console.ErrorKindUnauthorized, apiErr.Kind)
	assert.Equal(t, int32(1), calls.Load())

	assert.Contains(t, stderr, msgSessionExpired)

	token, err := auth.NewFileTokenStore(env.credentials).Get()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCLI_NoEndpoint(t *testing.T) {
	setupCLI(t, nil)

	_, _, err := execute(NewTransactionsCommand(), "list")
	require.ErrorIs(t, err, constants.ErrNoAPIEndpoint)
}

func TestCLI_Login(t *testing.T) {
	env := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/staff/login", r.URL.Path)

		var body console.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body.Email)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token": "fresh-token", "user": {"id": "u-1", "name": "Wanjiru", "role": "supervisor"}}`))
	})

	stdout, _, err := execute(NewLoginCommand(), "--portal", "staff", "--email", "ops@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as Wanjiru (supervisor) on the staff portal")

	token, err := auth.NewFileTokenStore(env.credentials).Get()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)

	data, err := os.ReadFile(env.configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "portal: staff")
	assert.Contains(t, string(data), "api: http://127.0.0.1")
}

func TestCLI_LoginRequiresEmail(t *testing.T) {
	setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, _, err := execute(NewLoginCommand(), "--password", "secret")
	require.ErrorIs(t, err, constants.ErrEmailRequired)
}

func TestCLI_LogoutAndToken(t *testing.T) {
	env := setupCLI(t, nil)
	env.seedToken(t, "abcdefghijklmnopqrstuvwxyz")

	stdout, _, err := execute(NewTokenCommand())
	require.NoError(t, err)

	var status TokenStatus
	require.NoError(t, json.Unmarshal([]byte(stdout), &status))
	assert.Equal(t, "abcdefghijkl***", status.Preview)
	assert.True(t, status.Valid)
	assert.NotNil(t, status.ExpiresAt)
	assert.Equal(t, env.credentials, status.Path)

	stdout, _, err = execute(NewLogoutCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out")

	_, err = os.Stat(env.credentials)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, _, err = execute(NewTokenCommand())
	require.ErrorIs(t, err, constants.ErrNotAuthenticated)

	// Logging out twice is fine.
	_, _, err = execute(NewLogoutCommand())
	require.NoError(t, err)
}

func TestCLI_ConfigSet(t *testing.T) {
	env := setupCLI(t, nil)

	_, _, err := execute(NewConfigCommand(), "set", "max_retries", "5")
	require.NoError(t, err)

	data, err := os.ReadFile(env.configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_retries: 5")

	info, err := os.Stat(env.configFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	_, _, err = execute(NewConfigCommand(), "set", "portal", "farmer")
	require.ErrorIs(t, err, constants.ErrInvalidPortal)
}

func TestCLI_Payroll(t *testing.T) {
	env := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/staff/payroll", r.URL.Path)
		assert.Equal(t, "2026-09", r.URL.Query().Get("month"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"staff_id": "s-1", "staff_name": "Otieno", "month": "2026-09", "gross": 1200, "deductions": 200, "net": 1000, "status": "paid"},
			{"staff_id": "s-2", "staff_name": "Achieng", "month": "2026-09", "gross": 900, "deductions": 100, "net": 800, "status": "pending"}
		]}`))
	})
	env.seedToken(t, "test-token")
	viper.Set(keyOutput, constants.FormatTable)

	stdout, _, err := execute(NewStaffCommand(), "payroll", "2026-09")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Otieno")
	assert.Contains(t, stdout, "Total net pay for 2026-09: 1,800.00")

	_, _, err = execute(NewStaffCommand(), "payroll", "September")
	require.ErrorIs(t, err, constants.ErrInvalidMonth)
}

func TestCLI_FarmerUpload(t *testing.T) {
	env := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/farmers/f-1/documents", r.URL.Path)

		file, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer file.Close()
			assert.Equal(t, "title.pdf", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "d-1", "farmer_id": "f-1", "file_name": "title.pdf"}`))
	})
	env.seedToken(t, "test-token")

	path := filepath.Join(env.dir, "title.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	stdout, _, err := execute(NewFarmersCommand(), "upload", "f-1", path)
	require.NoError(t, err)

	var document console.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &document))
	assert.Equal(t, "d-1", document.ID)
}
