package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/harvestline/agriconsole/internal/auth"
	"github.com/harvestline/agriconsole/internal/constants"
)

// TokenStatus describes the stored session.
type TokenStatus struct {
	Path      string     `json:"path"                 yaml:"path"`
	Preview   string     `json:"preview"              yaml:"preview"`
	Valid     bool       `json:"valid"                yaml:"valid"`
	StoredAt  time.Time  `json:"stored_at"            yaml:"stored_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	ExpiresIn string     `json:"expires_in,omitempty" yaml:"expires_in,omitempty"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show the stored session token",
		Long:  "Display a preview of the stored token and when it expires",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := tokenStore()

			token, ok, err := store.Current()
			if err != nil {
				return err
			}

			if !ok {
				return constants.ErrNotAuthenticated
			}

			status := newTokenStatus(store.Path(), token, time.Now())

			return renderOutput(cmd.OutOrStdout(), status, func(w io.Writer) error {
				return displayTokenStatus(w, status)
			})
		},
	}
}

func newTokenStatus(path string, token auth.Token, now time.Time) TokenStatus {
	status := TokenStatus{
		Path:     path,
		Preview:  previewToken(token.AccessToken),
		Valid:    token.Valid(),
		StoredAt: token.StoredAt,
	}

	if !token.ExpiresAt.IsZero() {
		expiresAt := token.ExpiresAt
		status.ExpiresAt = &expiresAt

		if remaining := expiresAt.Sub(now); remaining > 0 {
			status.ExpiresIn = remaining.Truncate(time.Second).String()
		}
	}

	return status
}

func previewToken(token string) string {
	if len(token) <= constants.TokenPreviewLength {
		return constants.MaskedSecret
	}

	return token[:constants.TokenPreviewLength] + constants.MaskedSecret
}

func displayTokenStatus(w io.Writer, status TokenStatus) error {
	state := "valid"
	if !status.Valid {
		state = "expired"
	}

	expires := "never"
	if status.ExpiresAt != nil {
		expires = status.ExpiresAt.Local().Format(dateTimeFormat)
		if status.ExpiresIn != "" {
			expires = fmt.Sprintf("%s (in %s)", expires, status.ExpiresIn)
		}
	}

	return renderDetails(w, [][2]string{
		{"Credentials", status.Path},
		{"Token", status.Preview},
		{"Status", state},
		{"Stored", status.StoredAt.Local().Format(dateTimeFormat)},
		{"Expires", expires},
	})
}
