package purpose

import (
	"time"

	"github.com/rpggio/consentdesk/internal/query"
)

// Field names understood by the purpose engine.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldLegalBasis  = "legal_basis"
	FieldStatus      = "status"
	FieldCreatedAt   = "created_at"
)

// QueryOptions selects purposes to display.
type QueryOptions struct {
	Search     string
	Status     *Status
	LegalBasis *LegalBasis
	Sort       *query.Sort
	Page       *query.PageRequest
}

// Params converts the options into engine parameters.
func (o QueryOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Status != nil {
		filters[FieldStatus] = string(*o.Status)
	}
	if o.LegalBasis != nil {
		filters[FieldLegalBasis] = string(*o.LegalBasis)
	}
	return query.Params{SearchText: o.Search, Filters: filters, Sort: o.Sort, Page: o.Page}
}

// QueryConfig describes how purposes are searched, filtered, and sorted.
func QueryConfig() query.Config[Purpose] {
	name := query.Text(func(p Purpose) string { return p.Name })
	basis := query.Enum(func(p Purpose) LegalBasis { return p.LegalBasis })

	return query.Config[Purpose]{
		Entity: "purpose",
		Search: []query.SearchField[Purpose]{
			query.Searchable(FieldName, name),
			query.Searchable(FieldDescription, query.Text(func(p Purpose) string { return p.Description })),
			query.Searchable(FieldLegalBasis, basis),
		},
		Filters: []query.Filter[Purpose]{
			query.Equals(FieldStatus, query.Enum(func(p Purpose) Status { return p.Status })),
			query.Equals(FieldLegalBasis, basis),
		},
		Sorts: []query.SortKey[Purpose]{
			query.ByText(FieldName, name),
			query.ByTime(FieldCreatedAt, query.Instant(func(p Purpose) time.Time { return p.CreatedAt })),
		},
	}
}
