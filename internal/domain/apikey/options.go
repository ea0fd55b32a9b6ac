package apikey

import (
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Field names understood by the API key engine.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldPrefix      = "prefix"
	FieldStatus      = "status"
	FieldEnvironment = "environment"
	FieldScope       = "scope"
	FieldCreatedAt   = "created_at"
	FieldLastUsedAt  = "last_used_at"
)

// QueryOptions selects keys to display. Nil or empty fields place no constraint.
type QueryOptions struct {
	Search      string
	Status      *Status
	Environment *Environment
	Scope       string
	Sort        *query.Sort
	Page        *query.PageRequest
}

// Params converts the options into engine parameters.
func (o QueryOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Status != nil {
		filters[FieldStatus] = string(*o.Status)
	}
	if o.Environment != nil {
		filters[FieldEnvironment] = string(*o.Environment)
	}
	if o.Scope != "" {
		filters[FieldScope] = o.Scope
	}
	return query.Params{SearchText: o.Search, Filters: filters, Sort: o.Sort, Page: o.Page}
}

// QueryConfig describes how keys are searched, filtered, and sorted.
// The status filter matches the effective status, so "expired" selects
// active keys past their expiry.
func QueryConfig() query.Config[Key] {
	name := query.Text(func(k Key) string { return k.Name })

	return query.Config[Key]{
		Entity: "api_key",
		Search: []query.SearchField[Key]{
			query.Searchable(FieldName, name),
			query.Searchable(FieldPrefix, query.Text(func(k Key) string { return k.Prefix })),
			query.Searchable(FieldID, query.Text(func(k Key) string { return k.ID })),
		},
		Filters: []query.Filter[Key]{
			{
				Name: FieldStatus,
				Match: func(k Key, selected string, env query.Env) bool {
					return string(k.StatusAt(env.Now)) == selected
				},
			},
			query.Equals(FieldEnvironment, query.Enum(func(k Key) Environment { return k.Environment })),
			query.Member(FieldScope, func(k Key) []string { return k.Scopes }),
		},
		Sorts: []query.SortKey[Key]{
			query.ByTime(FieldCreatedAt, query.Instant(func(k Key) time.Time { return k.CreatedAt })),
			query.ByTime(FieldLastUsedAt, query.OptionalInstant(func(k Key) *time.Time { return k.LastUsedAt })),
			query.ByText(FieldName, name),
		},
	}
}
