package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harvestline/agriconsole/internal/auth"
	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/logging"
	"github.com/harvestline/agriconsole/pkg/console"
	"github.com/harvestline/agriconsole/pkg/consoleclient"
	"github.com/harvestline/agriconsole/pkg/events"
)

const (
	msgSessionExpired = "Session expired, please log in again"
	natsClientName    = "agriconsole-cli"
	natsFlushTimeout  = 2 * time.Second
)

// CreateClient builds a console client from the CLI configuration. The
// session lives in the credentials file, so a 401 seen by any command logs
// every later command out. The returned function must be called once the
// command is done; it waits for session listeners and closes the relay.
func CreateClient(cmd *cobra.Command) (console.Client, func(), error) {
	config := loadConfig()
	if config.API == "" {
		return nil, nil, constants.ErrNoAPIEndpoint
	}

	verbose := viper.GetBool("verbose")
	logger := logging.NewConsole(verbose)

	clientConfig := console.DefaultConfig(config.API)
	clientConfig.Portal = console.Portal(config.Portal)
	clientConfig.MaxRetries = config.MaxRetries
	if config.MaxRetries == 0 {
		clientConfig.MaxRetries = console.NoRetries
	}
	clientConfig.RetryBaseDelay = config.RetryBaseDelay
	clientConfig.RetryMaxDelay = config.RetryMaxDelay
	clientConfig.TokenStore = auth.NewFileTokenStore(config.CredentialsFile)
	clientConfig.Logger = logger.WithComponent("http")
	clientConfig.Debug = verbose

	client, err := consoleclient.New(clientConfig)
	if err != nil {
		return nil, nil, err
	}

	errOut := cmd.ErrOrStderr()
	cleanups := []func(){
		client.Signals().Subscribe(func() {
			_, _ = fmt.Fprintln(errOut, msgSessionExpired)
		}),
	}

	if config.NATSURL != "" {
		cleanups = append(cleanups, relaySessionEvents(client.Signals(), config, logger.WithComponent("relay"))...)
	}

	done := func() {
		client.Signals().Close()

		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	return client, done, nil
}

// relaySessionEvents forwards session invalidation to NATS. A relay that
// cannot connect is logged and skipped; the command still runs.
func relaySessionEvents(bus *events.Bus, config *Config, logger *logging.Logger) []func() {
	conn, err := events.ConnectNATS(config.NATSURL, natsClientName)
	if err != nil {
		logger.Warn("Session relay disabled", map[string]interface{}{"error": err.Error()})

		return nil
	}

	stop, err := events.Forward(bus, conn, config.NATSSubject, func(err error) {
		logger.Warn("Session relay failed", map[string]interface{}{
			"subject": config.NATSSubject,
			"error":   err.Error(),
		})
	})
	if err != nil {
		conn.Close()

		return nil
	}

	return []func(){
		func() {
			_ = conn.FlushTimeout(natsFlushTimeout)
			conn.Close()
		},
		stop,
	}
}

func tokenStore() *auth.FileTokenStore {
	return auth.NewFileTokenStore(loadConfig().CredentialsFile)
}
