package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/tasksolver/pkg/config"
	"github.com/germanamz/tasksolver/pkg/credential"
	"github.com/germanamz/tasksolver/pkg/relayclient"
	"github.com/spf13/cobra"
)

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the OpenRouter API key held by the relay",
	}
	cmd.AddCommand(newKeySetCmd(a), newKeyStatusCmd(a), newKeyClearCmd(a))
	return cmd
}

func newKeySetCmd(a *app) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an API key on the relay (prompts when --value is absent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := relayclient.New(a.cfg.RelayURL, relayclient.Auth{}, nil)
			ctx := cmd.Context()

			value = strings.TrimSpace(value)
			if value == "" {
				if !isInteractive(cmd.InOrStdin()) {
					return errors.New("no key given: pass --value or run in a terminal")
				}
				if err := promptAndSaveKey(ctx, client); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key saved.")
				return err
			}

			if err := client.SaveAPIKey(ctx, value); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "API key %s saved.\n", credential.Mask(value))
			return err
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "the key to store")
	return cmd
}

func newKeyStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the relay has an API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			userID, err := loadUserID(dir)
			if err != nil {
				return err
			}

			client := relayclient.New(a.cfg.RelayURL, relayclient.Auth{}, nil)
			ok, err := client.HasAPIKey(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "configured")
			} else {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "not configured")
			}
			return err
		},
	}
}

func newKeyClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the API key stored on the relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := relayclient.New(a.cfg.RelayURL, relayclient.Auth{}, nil)
			if err := client.DeleteAPIKey(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return err
		},
	}
}
