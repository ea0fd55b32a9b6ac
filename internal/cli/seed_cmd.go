package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/rpggio/consentdesk/internal/fixtures"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Load a YAML seed file into the tenant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				seed *fixtures.Seed
				err  error
			)
			switch {
			case demo && len(args) == 0:
				seed, err = fixtures.ParseDemo()
			case !demo && len(args) == 1:
				f, openErr := os.Open(args[0])
				if openErr != nil {
					return openErr
				}
				defer f.Close()
				seed, err = fixtures.Parse(f)
			default:
				return fmt.Errorf("pass either a seed file or --demo")
			}
			if err != nil {
				return err
			}

			a, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := fixtures.Apply(cmd.Context(), fixtures.Services{
				Purposes:   a.Purposes,
				DataMap:    a.DataMap,
				Requests:   a.Requests,
				Grievances: a.Grievances,
				Audit:      a.Audit,
				Webhooks:   a.Webhooks,
				Keys:       a.Keys,
			}, opts.tenantID, seed)
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{"counts": report.Counts, "keys": report.Keys})
			}
			kinds := make([]string, 0, len(report.Counts))
			for kind := range report.Counts {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", kind, report.Counts[kind])
			}
			for _, k := range report.Keys {
				fmt.Fprintf(cmd.OutOrStdout(), "key %s (%s): %s\n", k.Key.Name, k.Key.ID, k.Secret)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Load the built-in demo data")
	return cmd
}
