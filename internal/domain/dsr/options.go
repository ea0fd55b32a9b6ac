package dsr

import (
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Filter, search, and sort field names understood by the request engine.
const (
	FieldID             = "id"
	FieldUserID         = "user_id"
	FieldEmail          = "email"
	FieldName           = "name"
	FieldResolutionNote = "resolution_note"
	FieldStatus         = "status"
	FieldType           = "type"
	FieldPriority       = "priority"
	FieldDate           = "date"
	FieldRequestedAt    = "requested_at"
	FieldDeadline       = "deadline"
)

// QueryOptions selects requests to display. Nil fields place no constraint.
type QueryOptions struct {
	Search   string
	Status   *Status
	Type     *RequestType
	Priority *Priority
	Window   *query.Window
	Sort     *query.Sort
	Page     *query.PageRequest
}

// Params converts the options into engine parameters.
func (o QueryOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Status != nil {
		filters[FieldStatus] = string(*o.Status)
	}
	if o.Type != nil {
		filters[FieldType] = string(*o.Type)
	}
	if o.Priority != nil {
		filters[FieldPriority] = string(*o.Priority)
	}
	if o.Window != nil {
		filters[FieldDate] = string(*o.Window)
	}
	return query.Params{
		SearchText: o.Search,
		Filters:    filters,
		Sort:       o.Sort,
		Page:       o.Page,
	}
}

// QueryConfig describes how requests are searched, filtered, and sorted.
func QueryConfig() query.Config[Request] {
	requestedAt := query.Instant(func(r Request) time.Time { return r.RequestedAt })
	priority := query.Enum(func(r Request) Priority { return r.Priority })

	return query.Config[Request]{
		Entity: "dsr_request",
		Search: []query.SearchField[Request]{
			query.Searchable(FieldID, query.Text(func(r Request) string { return r.ID })),
			query.Searchable(FieldUserID, query.Text(func(r Request) string { return r.UserID })),
			query.Searchable(FieldEmail, query.Text(func(r Request) string { return r.Email })),
			query.Searchable(FieldName, query.Text(func(r Request) string { return r.Name })),
			query.Searchable(FieldResolutionNote, query.OptionalText(func(r Request) *string { return r.ResolutionNote })),
		},
		Filters: []query.Filter[Request]{
			query.Equals(FieldStatus, query.Enum(func(r Request) Status { return r.Status })),
			query.Equals(FieldType, query.Enum(func(r Request) RequestType { return r.Type })),
			query.Equals(FieldPriority, priority),
			query.Within(FieldDate, requestedAt),
		},
		Sorts: []query.SortKey[Request]{
			query.ByTime(FieldRequestedAt, requestedAt),
			query.ByTime(FieldDeadline, query.Instant(func(r Request) time.Time { return r.Deadline })),
			query.ByRank(FieldPriority, priority, query.PriorityRank),
		},
	}
}
