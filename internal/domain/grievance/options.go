package grievance

import (
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Field names understood by the grievance engine.
const (
	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldSubject      = "subject"
	FieldDescription  = "description"
	FieldOrganization = "organization"
	FieldStatus       = "status"
	FieldPriority     = "priority"
	FieldSubmitted    = "submitted"
)

// QueryOptions selects grievances to display. Nil or empty fields place no constraint.
type QueryOptions struct {
	Search       string
	Status       *Status
	Organization string
	Priority     *Priority
	Sort         *query.Sort
	Page         *query.PageRequest
}

// Params converts the options into engine parameters.
func (o QueryOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Status != nil {
		filters[FieldStatus] = string(*o.Status)
	}
	if o.Organization != "" {
		filters[FieldOrganization] = o.Organization
	}
	if o.Priority != nil {
		filters[FieldPriority] = string(*o.Priority)
	}
	return query.Params{SearchText: o.Search, Filters: filters, Sort: o.Sort, Page: o.Page}
}

// QueryConfig describes how grievances are searched, filtered, and sorted.
func QueryConfig() query.Config[Grievance] {
	organization := query.Text(func(g Grievance) string { return g.Organization })
	priority := query.Enum(func(g Grievance) Priority { return g.Priority })

	return query.Config[Grievance]{
		Entity: "grievance",
		Search: []query.SearchField[Grievance]{
			query.Searchable(FieldSubject, query.Text(func(g Grievance) string { return g.Subject })),
			query.Searchable(FieldDescription, query.Text(func(g Grievance) string { return g.Description })),
			query.Searchable(FieldUserID, query.Text(func(g Grievance) string { return g.UserID })),
			query.Searchable(FieldID, query.Text(func(g Grievance) string { return g.ID })),
			query.Searchable(FieldOrganization, organization),
		},
		Filters: []query.Filter[Grievance]{
			query.Equals(FieldStatus, query.Enum(func(g Grievance) Status { return g.Status })),
			query.Equals(FieldOrganization, organization),
			query.Equals(FieldPriority, priority),
		},
		Sorts: []query.SortKey[Grievance]{
			query.ByTime(FieldSubmitted, query.Instant(func(g Grievance) time.Time { return g.SubmittedAt })),
			query.ByRank(FieldPriority, priority, query.PriorityRank),
		},
	}
}
