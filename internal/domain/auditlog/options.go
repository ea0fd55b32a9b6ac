package auditlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Field names understood by the audit log engine.
const (
	FieldUserName    = "user_name"
	FieldActionType  = "action_type"
	FieldSourceIP    = "source_ip"
	FieldRegion      = "region"
	FieldPurposeName = "purpose_name"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldInitiator   = "initiator"
	FieldTimestamp   = "timestamp"
)

// QueryOptions selects audit entries to display. Empty or nil fields place no constraint.
type QueryOptions struct {
	Search    string
	Category  string
	Window    *query.Window
	Initiator *Initiator
	Sort      *query.Sort
	Page      *query.PageRequest
}

// Params converts the options into engine parameters.
func (o QueryOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Category != "" {
		filters[FieldCategory] = o.Category
	}
	if o.Window != nil {
		filters[FieldDate] = string(*o.Window)
	}
	if o.Initiator != nil {
		filters[FieldInitiator] = string(*o.Initiator)
	}
	return query.Params{
		SearchText: o.Search,
		Filters:    filters,
		Sort:       o.Sort,
		Page:       o.Page,
	}
}

// QueryConfig describes how audit entries are searched, filtered, and sorted.
func QueryConfig() query.Config[Entry] {
	actionType := query.Text(func(e Entry) string { return e.ActionType })
	timestamp := query.Instant(func(e Entry) time.Time { return e.Timestamp })

	return query.Config[Entry]{
		Entity: "audit_log",
		Search: []query.SearchField[Entry]{
			query.Searchable(FieldUserName, query.Text(func(e Entry) string { return e.UserName })),
			query.Searchable(FieldActionType, actionType),
			query.Searchable(FieldSourceIP, query.Text(func(e Entry) string { return e.SourceIP })),
			query.Searchable(FieldRegion, query.Text(func(e Entry) string { return e.Region })),
			query.Searchable(FieldPurposeName, query.OptionalText(func(e Entry) *string { return e.PurposeName })),
		},
		Filters: []query.Filter[Entry]{
			query.Prefix(FieldCategory, actionType, "."),
			query.Within(FieldDate, timestamp),
			query.Equals(FieldInitiator, query.Enum(func(e Entry) Initiator { return e.Initiator })),
		},
		Sorts: []query.SortKey[Entry]{
			query.ByTime(FieldTimestamp, timestamp),
		},
	}
}

// ParseInitiator reads an initiator filter value; "all" and "" mean no constraint.
func ParseInitiator(s string) (*Initiator, error) {
	if query.Unconstrained(s) {
		return nil, nil
	}
	i := Initiator(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return nil, fmt.Errorf("%w: unknown initiator %q", ErrInvalidInput, s)
	}
	return &i, nil
}
