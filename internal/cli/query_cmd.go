package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rpggio/consentdesk/internal/mcp"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/spf13/cobra"
)

// queryEntities maps CLI entity names to query methods.
var queryEntities = map[string]string{
	"audit":      "query_audit_log",
	"requests":   "query_dsr_requests",
	"grievances": "query_grievances",
	"keys":       "query_api_keys",
	"purposes":   "query_purposes",
	"webhooks":   "query_webhooks",
	"categories": "query_data_categories",
	"processors": "query_data_processors",
	"storages":   "query_data_storages",
	"flows":      "query_data_flows",
}

func entityNames() []string {
	names := make([]string, 0, len(queryEntities))
	for name := range queryEntities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newQueryCmd(opts *options) *cobra.Command {
	var (
		params    mcp.QueryParams
		sortField string
		direction string
	)

	cmd := &cobra.Command{
		Use:       "query <entity>",
		Short:     "Search, filter, and sort records",
		Long:      "Search, filter, and sort records of one entity: " + strings.Join(entityNames(), ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: entityNames(),
		Example: `  consentctl query requests --filter status=pending --sort priority
  consentctl query audit --filter category=consent --filter date=this_week -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			method, ok := queryEntities[args[0]]
			if !ok {
				return fmt.Errorf("unknown entity %q: want one of %s", args[0], strings.Join(entityNames(), ", "))
			}
			if sortField != "" {
				params.Sort = &query.Sort{Field: sortField, Direction: query.ParseDirection(direction)}
			}
			raw, err := json.Marshal(params)
			if err != nil {
				return err
			}

			a, logger, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := mcp.NewHandler(a.MCPServices(), logger).Handle(cmd.Context(), opts.tenantID, method, raw)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}

			var page struct {
				Results       json.RawMessage `json:"results"`
				Total         int             `json:"total"`
				NextPageToken string          `json:"next_page_token"`
			}
			data, err := json.Marshal(result)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &page); err != nil {
				return err
			}
			var records []map[string]any
			if err := json.Unmarshal(page.Results, &records); err != nil {
				return err
			}
			if err := printTable(cmd.OutOrStdout(), records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(records), page.Total)
			if page.NextPageToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "next page: --page-token %s\n", page.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.Search, "search", "s", "", "Case-insensitive search text")
	cmd.Flags().StringToStringVarP(&params.Filters, "filter", "f", nil, "Filter as field=value (repeatable)")
	cmd.Flags().StringVar(&sortField, "sort", "", "Sort field")
	cmd.Flags().StringVar(&direction, "direction", "desc", "Sort direction (asc, desc)")
	cmd.Flags().IntVarP(&params.MaxResults, "limit", "n", 0, "Page size")
	cmd.Flags().StringVar(&params.PageToken, "page-token", "", "Continue from a previous page")

	return cmd
}

func newDescribeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "List searchable, filterable, and sortable fields per entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, logger, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			entities := mcp.NewHandler(a.MCPServices(), logger).Describe()
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), entities)
			}
			records := make([]map[string]any, 0, len(entities))
			for _, d := range entities {
				records = append(records, map[string]any{
					"id":      d.Entity,
					"search":  strings.Join(d.Search, ","),
					"filters": strings.Join(d.Filters, ","),
					"sorts":   strings.Join(d.Sorts, ","),
				})
			}
			return printTable(cmd.OutOrStdout(), records)
		},
	}
}
