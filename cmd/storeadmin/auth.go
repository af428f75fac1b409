package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/api"
	"github.com/Cloudsky01/storeadmin/internal/credentials"
	"github.com/Cloudsky01/storeadmin/internal/wizard"
)

var (
	loginUser string

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long: `Sign in with a store account. The access token is kept in the OS
keyring, one entry per backend URL, and sent with every request the
console makes.`,
		RunE: runLogin,
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE:  runLogout,
	}
)

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "Account name (default: api.username)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, _, err := runtimeConfig(cmd)
	if err != nil {
		return err
	}
	if !wizard.IsTTY() {
		return fmt.Errorf("storeadmin login needs an interactive terminal")
	}

	username := loginUser
	if username == "" {
		username = cfg.API.Username
	}
	var password string
	if err := wizard.AskCredentials(&username, &password); err != nil {
		return err
	}

	client, err := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}

	var token string
	err = wizard.RunWithSpinner(cmd.Context(), "Signing in to "+cfg.API.BaseURL, func(ctx context.Context) error {
		tokens, err := client.Login(ctx, username, password)
		if err != nil {
			return errors.New(api.Message(err))
		}
		token = tokens.AccessToken
		return nil
	})
	if err != nil {
		return err
	}

	if err := credentials.SetToken(cfg.API.BaseURL, token); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Signed in as " + username))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, _, err := runtimeConfig(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, zap.NewNop())
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}
	if client.HasToken() {
		// the local token is dropped even when the backend is gone
		if err := client.Logout(cmd.Context()); err != nil {
			fmt.Println(wizard.WarnStyle().Render("⚠ " + api.Message(err)))
		}
	}

	if err := credentials.DeleteToken(cfg.API.BaseURL); err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in to "+cfg.API.BaseURL)
			return nil
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out of "+cfg.API.BaseURL)
	return nil
}
