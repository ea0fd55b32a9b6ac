package cli

import (
	"fmt"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/spf13/cobra"
)

func newKeysCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}
	cmd.AddCommand(newKeysCreateCmd(opts))
	cmd.AddCommand(newKeysRevokeCmd(opts))
	return cmd
}

func newKeysCreateCmd(opts *options) *cobra.Command {
	var (
		name      string
		scopes    []string
		env       string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue an API key and print its secret once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			req := apikey.CreateRequest{Name: name, Scopes: scopes, Environment: apikey.Environment(env)}
			if expiresIn > 0 {
				at := time.Now().Add(expiresIn)
				req.ExpiresAt = &at
			}
			created, err := a.Keys.Create(cmd.Context(), opts.tenantID, req)
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id:     %s\nprefix: %s\nsecret: %s\n", created.Key.ID, created.Key.Prefix, created.Secret)
			fmt.Fprintln(cmd.ErrOrStderr(), "Store the secret now; it cannot be shown again.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Key name")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Granted scope (repeatable)")
	cmd.Flags().StringVar(&env, "env", string(apikey.EnvironmentTest), "Environment (live, test)")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Expire the key after this duration")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newKeysRevokeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <id>",
		Short: "Permanently revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.Keys.Revoke(cmd.Context(), opts.tenantID, args[0])
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", key.ID)
			return nil
		},
	}
}
