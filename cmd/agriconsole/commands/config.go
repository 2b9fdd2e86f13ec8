package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
	"github.com/harvestline/agriconsole/pkg/consoleclient"
)

const (
	configDirName       = ".agriconsole"
	configFileName      = "config.yml"
	credentialsFileName = "credentials.yml"
)

// Configuration keys.
const (
	keyAPI             = "api"
	keyPortal          = "portal"
	keyOutput          = "output"
	keyMaxRetries      = "max_retries"
	keyRetryBaseDelay  = "retry_base_delay"
	keyRetryMaxDelay   = "retry_max_delay"
	keyCredentialsFile = "credentials_file"
	keyNATSURL         = "nats_url"
	keyNATSSubject     = "nats_subject"
)

// Config represents the CLI configuration.
type Config struct {
	API    string `json:"api,omitempty" yaml:"api,omitempty"`
	Portal string `json:"portal"        yaml:"portal"`
	Output string `json:"output"        yaml:"output"`

	MaxRetries     int           `json:"max_retries"               yaml:"max_retries"`
	RetryBaseDelay time.Duration `json:"retry_base_delay"          yaml:"retry_base_delay"`
	RetryMaxDelay  time.Duration `json:"retry_max_delay,omitempty" yaml:"retry_max_delay,omitempty"`

	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`

	// Session invalidation relay. Empty NATSURL disables it.
	NATSURL     string `json:"nats_url,omitempty"     yaml:"nats_url,omitempty"`
	NATSSubject string `json:"nats_subject,omitempty" yaml:"nats_subject,omitempty"`
}

// DefaultConfigDir returns ~/.agriconsole.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName), nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the agriconsole CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration, including defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			return renderOutput(cmd.OutOrStdout(), config, func(w io.Writer) error {
				return displayConfigTable(w, config)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save it to the config file.

Keys: api, portal, output, max_retries, retry_base_delay, retry_max_delay,
credentials_file, nats_url, nats_subject`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := applyConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

// applyConfigValue validates value and stores it under key.
func applyConfigValue(config *Config, key, value string) error {
	switch key {
	case keyAPI:
		endpoint, err := consoleclient.NormalizeEndpoint(value)
		if err != nil {
			return err
		}

		config.API = endpoint
	case keyPortal:
		portal := console.Portal(value)
		if portal != console.PortalAdmin && portal != console.PortalStaff {
			return constants.ErrInvalidPortal
		}

		config.Portal = value
	case keyOutput:
		if value != constants.FormatTable && value != constants.FormatJSON && value != constants.FormatYAML {
			return constants.ErrInvalidOutput
		}

		config.Output = value
	case keyMaxRetries:
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}

		if retries < 0 {
			return constants.ErrNegativeMaxRetries
		}

		config.MaxRetries = retries
	case keyRetryBaseDelay, keyRetryMaxDelay:
		delay, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}

		if delay < 0 {
			return constants.ErrNegativeDelay
		}

		if key == keyRetryBaseDelay {
			config.RetryBaseDelay = delay
		} else {
			config.RetryMaxDelay = delay
		}
	case keyCredentialsFile:
		config.CredentialsFile = filepath.Clean(value)
	case keyNATSURL:
		config.NATSURL = value
	case keyNATSSubject:
		config.NATSSubject = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func loadConfig() *Config {
	config := &Config{
		API:             viper.GetString(keyAPI),
		Portal:          viper.GetString(keyPortal),
		Output:          viper.GetString(keyOutput),
		MaxRetries:      constants.DefaultMaxRetries,
		RetryBaseDelay:  constants.DefaultRetryBaseDelay,
		RetryMaxDelay:   viper.GetDuration(keyRetryMaxDelay),
		CredentialsFile: viper.GetString(keyCredentialsFile),
		NATSURL:         viper.GetString(keyNATSURL),
		NATSSubject:     viper.GetString(keyNATSSubject),
	}

	if viper.IsSet(keyMaxRetries) {
		config.MaxRetries = viper.GetInt(keyMaxRetries)
	}

	if viper.IsSet(keyRetryBaseDelay) {
		config.RetryBaseDelay = viper.GetDuration(keyRetryBaseDelay)
	}

	if config.Portal == "" {
		config.Portal = string(console.PortalAdmin)
	}

	if config.Output == "" {
		config.Output = constants.FormatTable
	}

	if config.CredentialsFile == "" {
		dir, err := DefaultConfigDir()
		if err == nil {
			config.CredentialsFile = filepath.Join(dir, credentialsFileName)
		}
	}

	if config.NATSURL != "" && config.NATSSubject == "" {
		config.NATSSubject = constants.DefaultSessionSubject
	}

	return config
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, configFileName), nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func displayConfigTable(w io.Writer, config *Config) error {
	values := map[string]string{
		keyAPI:             orNotAvailable(config.API),
		keyPortal:          config.Portal,
		keyOutput:          config.Output,
		keyMaxRetries:      strconv.Itoa(config.MaxRetries),
		keyRetryBaseDelay:  config.RetryBaseDelay.String(),
		keyRetryMaxDelay:   "unlimited",
		keyCredentialsFile: orNotAvailable(config.CredentialsFile),
		keyNATSURL:         orNotAvailable(config.NATSURL),
		keyNATSSubject:     orNotAvailable(config.NATSSubject),
	}

	if config.RetryMaxDelay > 0 {
		values[keyRetryMaxDelay] = config.RetryMaxDelay.String()
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(w)
	table.Header("Key", "Value")

	for _, key := range keys {
		_ = table.Append(key, values[key])
	}

	return renderTable(table)
}
