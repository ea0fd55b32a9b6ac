package datamap

import "github.com/rpggio/consentdesk/internal/query"

// Field names understood by the data map engines.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldSensitivity = "sensitivity"
	FieldType        = "type"
	FieldLocation    = "location"
	FieldCategory    = "category"
	FieldSource      = "source"
	FieldDestination = "destination"
)

// CategoryOptions selects data categories.
type CategoryOptions struct {
	Search      string
	Sensitivity *Sensitivity
	Page        *query.PageRequest
}

// Params converts the options into engine parameters.
func (o CategoryOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Sensitivity != nil {
		filters[FieldSensitivity] = string(*o.Sensitivity)
	}
	return query.Params{SearchText: o.Search, Filters: filters, Page: o.Page}
}

// HoldingOptions selects processors or storages. Category matches by membership.
type HoldingOptions struct {
	Search   string
	Type     string
	Location string
	Category string
	Page     *query.PageRequest
}

// Params converts the options into engine parameters.
func (o HoldingOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Type != "" {
		filters[FieldType] = o.Type
	}
	if o.Location != "" {
		filters[FieldLocation] = o.Location
	}
	if o.Category != "" {
		filters[FieldCategory] = o.Category
	}
	return query.Params{SearchText: o.Search, Filters: filters, Page: o.Page}
}

// FlowOptions selects data flows.
type FlowOptions struct {
	Search   string
	Category string
	Page     *query.PageRequest
}

// Params converts the options into engine parameters.
func (o FlowOptions) Params() query.Params {
	filters := map[string]string{}
	if o.Category != "" {
		filters[FieldCategory] = o.Category
	}
	return query.Params{SearchText: o.Search, Filters: filters, Page: o.Page}
}

// CategoryConfig describes how data categories are queried. Categories have no sort keys.
func CategoryConfig() query.Config[Category] {
	return query.Config[Category]{
		Entity: "data_category",
		Search: []query.SearchField[Category]{
			query.Searchable(FieldName, query.Text(func(c Category) string { return c.Name })),
			query.Searchable(FieldDescription, query.Text(func(c Category) string { return c.Description })),
		},
		Filters: []query.Filter[Category]{
			query.Equals(FieldSensitivity, query.Enum(func(c Category) Sensitivity { return c.Sensitivity })),
		},
	}
}

// ProcessorConfig describes how processors are queried.
func ProcessorConfig() query.Config[Processor] {
	return query.Config[Processor]{
		Entity: "data_processor",
		Search: []query.SearchField[Processor]{
			query.Searchable(FieldName, query.Text(func(p Processor) string { return p.Name })),
			query.Searchable(FieldDescription, query.Text(func(p Processor) string { return p.Description })),
		},
		Filters: []query.Filter[Processor]{
			query.Equals(FieldType, query.Text(func(p Processor) string { return p.Type })),
			query.Equals(FieldLocation, query.Text(func(p Processor) string { return p.Location })),
			query.Member(FieldCategory, func(p Processor) []string { return p.Categories }),
		},
	}
}

// StorageConfig describes how storages are queried.
func StorageConfig() query.Config[Storage] {
	return query.Config[Storage]{
		Entity: "data_storage",
		Search: []query.SearchField[Storage]{
			query.Searchable(FieldName, query.Text(func(s Storage) string { return s.Name })),
			query.Searchable(FieldDescription, query.Text(func(s Storage) string { return s.Description })),
		},
		Filters: []query.Filter[Storage]{
			query.Equals(FieldType, query.Text(func(s Storage) string { return s.Type })),
			query.Equals(FieldLocation, query.Text(func(s Storage) string { return s.Location })),
			query.Member(FieldCategory, func(s Storage) []string { return s.Categories }),
		},
	}
}

// FlowConfig describes how data flows are queried.
func FlowConfig() query.Config[Flow] {
	return query.Config[Flow]{
		Entity: "data_flow",
		Search: []query.SearchField[Flow]{
			query.Searchable(FieldName, query.Text(func(f Flow) string { return f.Name })),
			query.Searchable(FieldDescription, query.Text(func(f Flow) string { return f.Description })),
			query.Searchable(FieldSource, query.Text(func(f Flow) string { return f.Source })),
			query.Searchable(FieldDestination, query.Text(func(f Flow) string { return f.Destination })),
		},
		Filters: []query.Filter[Flow]{
			query.Member(FieldCategory, func(f Flow) []string { return f.Categories }),
		},
	}
}
