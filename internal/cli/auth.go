package cli

import (
	"github.com/spf13/cobra"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// addAuthCommands adds session management commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
	rootCmd.AddCommand(newAuthStatusCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to Angel One SmartAPI",
		Long: `Login to Angel One SmartAPI using the MPIN + TOTP flow.

Credentials are read from credentials.toml (or ANGEL_* environment
variables). The session is cached in memory for its TTL; subsequent
commands reuse it without logging in again.`,
		Example: `  optitrade login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)

			session, err := app.Sessions.Acquire(cmd.Context())
			if err != nil {
				return err
			}

			if out.IsJSON() {
				return out.JSON(map[string]interface{}{
					"status":      session.Status,
					"valid_until": session.ValidUntil,
				})
			}
			out.Success("✓ Logged in")
			out.Printf("  Session valid until %s\n", session.ValidUntil.Format("15:04:05"))
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)
			app.Sessions.Invalidate()
			out.Success("✓ Session discarded")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd, app.Config.Output.ColorEnabled)
			session := app.Sessions.Current()

			if out.IsJSON() {
				return out.JSON(map[string]interface{}{
					"status":      session.Status,
					"issued_at":   session.IssuedAt,
					"valid_until": session.ValidUntil,
				})
			}

			switch session.Status {
			case models.SessionValid:
				out.Success("● Session valid until %s", session.ValidUntil.Format("15:04:05"))
			case models.SessionExpired:
				out.Warning("● Session expired, next command will re-login")
			case models.SessionFailed:
				out.Error("● Last login failed")
			default:
				out.Info("● Not logged in")
			}
			return nil
		},
	}
}
