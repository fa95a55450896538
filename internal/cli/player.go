package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Sign in and manage the current player",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerLogoutCmd())

	return cmd
}

// authenticate posts req to path, keeps the returned token and prints the player
func authenticate(ctx context.Context, path string, req map[string]string) error {
	var result AuthResult
	if err := client.Post(ctx, path, req, &result); err != nil {
		return err
	}

	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	NewOutput(cfg.Output).Print(result)
	return nil
}

// credentialFlags reads the password from DOTRI_PASSWORD when --pass is omitted
type credentialFlags struct {
	user string
	pass string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&f.pass, "pass", "", "Password (env: DOTRI_PASSWORD)")
	_ = cmd.MarkFlagRequired("user")
}

func (f *credentialFlags) request() (map[string]string, error) {
	pass := f.pass
	if pass == "" {
		pass = os.Getenv("DOTRI_PASSWORD")
	}
	if pass == "" {
		return nil, errors.New("a password is required: pass --pass or set DOTRI_PASSWORD")
	}
	return map[string]string{"username": f.user, "password": pass}, nil
}

func newPlayerGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Start a guest session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd.Context(), "/api/v1/players/guest", map[string]string{"display_name": name})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default \"Guest\")")
	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var (
		name  string
		creds credentialFlags
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account so stats follow you between devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := creds.request()
			if err != nil {
				return err
			}
			req["display_name"] = name
			return authenticate(cmd.Context(), "/api/v1/players/register", req)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the username)")
	creds.register(cmd)
	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := creds.request()
			if err != nil {
				return err
			}
			return authenticate(cmd.Context(), "/api/v1/players/login", req)
		},
	}

	creds.register(cmd)
	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get(cmd.Context(), "/api/v1/players/me", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/players/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}
