package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email (prompted when omitted)")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (prompted when omitted)")
}

func (c *CLI) newRegisterCmd() *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAuthenticate(cmd.Context(), flags, true)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (c *CLI) newLoginCmd() *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAuthenticate(cmd.Context(), flags, false)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (c *CLI) runAuthenticate(ctx context.Context, flags credentialFlags, register bool) error {
	creds, err := c.readCredentials(flags)
	if err != nil {
		return err
	}

	a, err := c.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var token *domain.TokenResponse
	if register {
		token, err = a.client.Register(ctx, creds)
	} else {
		token, err = a.client.Login(ctx, creds)
	}
	if err != nil {
		return err
	}

	if err := a.session.Begin(token.AccessToken, creds.Email); err != nil {
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"authenticated": true,
			"email":         creds.Email,
		})
	}

	if register {
		c.printf("✓ Account created for %s\n", creds.Email)
	} else {
		c.printf("✓ Logged in as %s\n", creds.Email)
	}
	if path := a.session.Path(); path != "" {
		c.printf("  Session saved to: %s\n", path)
	}
	return nil
}

func (c *CLI) readCredentials(flags credentialFlags) (domain.Credentials, error) {
	creds := domain.Credentials{Email: flags.email, Password: flags.password}

	var err error
	if creds.Email == "" {
		if creds.Email, err = c.prompt("Email: "); err != nil {
			return creds, err
		}
	}
	if creds.Password == "" {
		if creds.Password, err = c.prompt("Password: "); err != nil {
			return creds, err
		}
	}

	if creds.Email == "" || creds.Password == "" {
		return creds, fmt.Errorf("%w: email and password are required", domain.ErrInvalidRequest)
	}
	return creds, nil
}

func (c *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.End(); err != nil {
				return err
			}
			c.println("✓ Logged out")
			return nil
		},
	}
}

func (c *CLI) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openSession()
			if err != nil {
				return err
			}
			defer a.Close()

			me, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(me)
			}
			c.printf("%s (id %s)\n", me.Email, me.ID)
			return nil
		},
	}
}
