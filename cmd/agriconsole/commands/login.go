package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
	"github.com/harvestline/agriconsole/pkg/consoleclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		portal   string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the console",
		Long:  "Authenticate against the admin or staff portal and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if portal != "" {
				viper.Set(keyPortal, portal)
			}

			if email == "" {
				reader := bufio.NewReader(cmd.InOrStdin())
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				line, _ := reader.ReadString('\n')
				email = strings.TrimSpace(line)
			}

			if email == "" {
				return constants.ErrEmailRequired
			}

			if password == "" {
				secret, err := readPassword(cmd.OutOrStdout())
				if err != nil {
					return err
				}

				password = secret
			}

			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			config := loadConfig()

			response, err := client.Auth().Login(cmd.Context(), console.Portal(config.Portal), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			config.API, _ = consoleclient.NormalizeEndpoint(config.API)

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s) on the %s portal\n",
				orNotAvailable(response.User.Name), orNotAvailable(response.User.Role), config.Portal)

			return nil
		},
	}

	cmd.Flags().StringVar(&portal, "portal", "", "portal to log in to (admin, staff)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")

	return cmd
}

func readPassword(out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Password: ")

	secret, err := term.ReadPassword(int(syscall.Stdin))

	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(secret), nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the console",
		Long:  "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := tokenStore().Clear()
			if err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}

// NewWhoAmICommand creates the whoami command.
func NewWhoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Long:  "Display the account the stored session belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			user, err := client.Auth().Me(cmd.Context())
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), user, func(w io.Writer) error {
				return renderDetails(w, [][2]string{
					{"ID", user.ID},
					{"Name", orNotAvailable(user.Name)},
					{"Email", orNotAvailable(user.Email)},
					{"Role", orNotAvailable(user.Role)},
					{"Portal", orNotAvailable(string(user.Portal))},
				})
			})
		},
	}
}
