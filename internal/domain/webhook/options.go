package webhook

import (
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Field names understood by the webhook engine.
const (
	FieldURL         = "url"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldEvent       = "event"
	FieldCreatedAt   = "created_at"
)

// QueryOptions selects webhooks to display.
type QueryOptions struct {
	Search string
	Status *Status
	Event  string
	Sort   *query.Sort
	Page   *query.PageRequest
}

// Params converts the options into engine parameters.
func (o QueryOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Status != nil {
		filters[FieldStatus] = string(*o.Status)
	}
	if o.Event != "" {
		filters[FieldEvent] = o.Event
	}
	return query.Params{SearchText: o.Search, Filters: filters, Sort: o.Sort, Page: o.Page}
}

// QueryConfig describes how webhooks are searched, filtered, and sorted.
func QueryConfig() query.Config[Webhook] {
	endpoint := query.Text(func(w Webhook) string { return w.URL })

	return query.Config[Webhook]{
		Entity: "webhook",
		Search: []query.SearchField[Webhook]{
			query.Searchable(FieldURL, endpoint),
			query.Searchable(FieldDescription, query.Text(func(w Webhook) string { return w.Description })),
		},
		Filters: []query.Filter[Webhook]{
			query.Equals(FieldStatus, query.Enum(func(w Webhook) Status { return w.Status })),
			query.Member(FieldEvent, func(w Webhook) []string { return w.Events }),
		},
		Sorts: []query.SortKey[Webhook]{
			query.ByTime(FieldCreatedAt, query.Instant(func(w Webhook) time.Time { return w.CreatedAt })),
			query.ByText(FieldURL, endpoint),
		},
	}
}
