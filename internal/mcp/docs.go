package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/consentdesk/internal/query"
)

const serverInstructions = `consentdesk administers consent records for a data fiduciary: audit log, data-subject requests (DSRs), grievances, data map, API keys, processing purposes, and webhooks.

Core concepts:
- Every entity is queried the same way: search text, exact-match filters, one sort key, and a page.
- Filter values "all" or "" place no constraint. Unknown filter names and date windows are ignored; an unknown enum value matches nothing.
- Derived filters: audit "category" matches the prefix of action_type (consent.granted -> consent); "date" takes today, yesterday, this_week, this_month, last_month.
- Priority sorts by rank (urgent > high > medium > low); missing values sort last in both directions.
- Default sort direction is desc.

Rules of engagement:
1) Orient: get_dashboard_summary, then describe_queries to see each entity's fields.
2) Browse: query_<entity> with small max_results; follow next_page_token for more.
3) Write: create_* and update_*_status. Completing or rejecting a DSR and resolving a grievance need a resolution note.
4) API key secrets are shown once by create_api_key; store them before moving on.

Docs:
- consentdesk://docs/index
- consentdesk://docs/querying
- consentdesk://docs/workflows
- consentdesk://docs/fields
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "consentdesk://docs/index",
		Name:        "docs_index",
		Title:       "consentdesk docs index",
		Description: "Entry point: which doc to read for what.",
		Content: `# consentdesk: Agent Docs Index

## Quick start

1. ` + "`get_dashboard_summary`" + ` for counts of pending requests, open grievances, and today's audit events.
2. ` + "`describe_queries`" + ` to list searchable, filterable, and sortable fields per entity.
3. ` + "`query_<entity>`" + ` to find records.
4. ` + "`create_*`" + ` / ` + "`update_*_status`" + ` to change them.

## Docs

- ` + "`consentdesk://docs/querying`" + `: search, filter, sort, and paging semantics.
- ` + "`consentdesk://docs/workflows`" + `: DSR and grievance status lifecycles.
- ` + "`consentdesk://docs/fields`" + `: generated field reference for every entity.
`,
	},
	{
		URI:         "consentdesk://docs/querying",
		Name:        "docs_querying",
		Title:       "Querying records",
		Description: "Search, filter, sort, and page semantics shared by every query tool.",
		Content: `# Querying records

Each step narrows or orders the previous one:

1. **Search**: case-insensitive substring over the entity's search fields. A record matches if any field contains the text. Empty search matches everything.
2. **Filters**: exact match per field; ` + "`all`" + ` or empty means no constraint. Multi-valued fields (categories, scopes, events) match if any value equals the filter.
3. **Derived filters**:
   - audit ` + "`category`" + `: text before the first ` + "`.`" + ` of action_type.
   - ` + "`date`" + `: half-open window ` + "`[start, end)`" + ` in server time. ` + "`this_week`" + ` starts at the configured week start (Monday by default).
4. **Sort**: stable, so equal keys keep insertion order. Numbers and times compare by value, strings by byte order, priority by rank. Records missing the sort field go last.
5. **Page**: ` + "`max_results`" + ` (default 100, max 1000) and ` + "`page_token`" + `. ` + "`total`" + ` is the count before paging.

All filters combine with AND. There is no OR or NOT.

Queries never fail on filter values. An unknown filter name or date window places no constraint. An enum value outside its set (a status that does not exist) matches nothing, so the result is empty. A malformed page token starts from the first page.

## Errors

- ` + "`INVALID_PARAMS`" + `: arguments that are not the expected JSON shape, or an ID that is malformed or names another entity type.
- ` + "`*_NOT_FOUND`" + `: the ID does not exist for this tenant.
`,
	},
	{
		URI:         "consentdesk://docs/workflows",
		Name:        "docs_workflows",
		Title:       "Status lifecycles",
		Description: "Allowed DSR and grievance status transitions.",
		Content: `# Status lifecycles

## Data-subject requests

` + "`pending -> in_progress -> completed | rejected`" + `. A pending request may also be rejected directly, and an in-progress one may return to pending.
The deadline is 30 days after requested_at. Completed and rejected need a resolution note.

## Grievances

- ` + "`open -> in_progress | escalated | closed`" + `
- ` + "`in_progress -> escalated | resolved | closed`" + `
- ` + "`escalated -> in_progress | resolved`" + `
- ` + "`resolved -> closed | open`" + `
- ` + "`closed -> open`" + `

Resolved needs a resolution note.

## API keys

Revocation is permanent. A key past its expiry reports status ` + "`expired`" + ` and stops authenticating.
`,
	},
}

// fieldsDoc renders the per-entity field reference from the live query configs.
func fieldsDoc(entities []query.Description) docResource {
	var b strings.Builder
	b.WriteString("# Query fields\n")
	for _, d := range entities {
		fmt.Fprintf(&b, "\n## %s\n\n", d.Entity)
		fmt.Fprintf(&b, "- search: %s\n", joinOrNone(d.Search))
		fmt.Fprintf(&b, "- filters: %s\n", joinOrNone(d.Filters))
		fmt.Fprintf(&b, "- sorts: %s\n", joinOrNone(d.Sorts))
	}
	return docResource{
		URI:         "consentdesk://docs/fields",
		Name:        "docs_fields",
		Title:       "Query fields",
		Description: "Searchable, filterable, and sortable fields per entity.",
		Content:     b.String(),
	}
}

func joinOrNone(fields []string) string {
	if len(fields) == 0 {
		return "none"
	}
	return "`" + strings.Join(fields, "`, `") + "`"
}

func registerDocResources(server *sdkmcp.Server, entities []query.Description) {
	docs := append(append([]docResource{}, docResources...), fieldsDoc(entities))
	for _, doc := range docs {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
