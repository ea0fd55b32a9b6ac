package mcp

import (
	"strings"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"github.com/rpggio/consentdesk/internal/query"
)

// Wire filters never fail a query. Unknown filter names and date windows
// place no constraint; enum values outside their set match nothing.

func (p QueryParams) filter(name string) string {
	v := p.Filters[name]
	if query.Unconstrained(v) {
		return ""
	}
	return v
}

func (p QueryParams) page() *query.PageRequest {
	return &query.PageRequest{MaxResults: p.MaxResults, PageToken: p.PageToken}
}

func (p QueryParams) sort() *query.Sort {
	if p.Sort == nil || p.Sort.Field == "" {
		return nil
	}
	return &query.Sort{Field: p.Sort.Field, Direction: query.ParseDirection(string(p.Sort.Direction))}
}

func (p QueryParams) window(name string) *query.Window {
	w, ok := query.ParseWindow(p.filter(name))
	if !ok {
		return nil
	}
	return &w
}

// enumFilter reads a filter value with parse. A value outside the
// enumeration is kept as given, so it matches no record.
func enumFilter[E ~string](p QueryParams, name string, parse func(string) (*E, error)) *E {
	raw := p.filter(name)
	v, err := parse(raw)
	if err == nil {
		return v
	}
	e := E(strings.ToLower(strings.TrimSpace(raw)))
	return &e
}

func requestOptions(p QueryParams) dsr.QueryOptions {
	return dsr.QueryOptions{
		Search:   p.Search,
		Status:   enumFilter(p, dsr.FieldStatus, dsr.ParseStatus),
		Type:     enumFilter(p, dsr.FieldType, dsr.ParseType),
		Priority: enumFilter(p, dsr.FieldPriority, dsr.ParsePriority),
		Window:   p.window(dsr.FieldDate),
		Sort:     p.sort(),
		Page:     p.page(),
	}
}

func grievanceOptions(p QueryParams) grievance.QueryOptions {
	return grievance.QueryOptions{
		Search:       p.Search,
		Status:       enumFilter(p, grievance.FieldStatus, grievance.ParseStatus),
		Organization: p.filter(grievance.FieldOrganization),
		Priority:     enumFilter(p, grievance.FieldPriority, grievance.ParsePriority),
		Sort:         p.sort(),
		Page:         p.page(),
	}
}

func auditOptions(p QueryParams) auditlog.QueryOptions {
	return auditlog.QueryOptions{
		Search:    p.Search,
		Category:  p.filter(auditlog.FieldCategory),
		Window:    p.window(auditlog.FieldDate),
		Initiator: enumFilter(p, auditlog.FieldInitiator, auditlog.ParseInitiator),
		Sort:      p.sort(),
		Page:      p.page(),
	}
}

func keyOptions(p QueryParams) apikey.QueryOptions {
	return apikey.QueryOptions{
		Search:      p.Search,
		Status:      enumFilter(p, apikey.FieldStatus, apikey.ParseStatus),
		Environment: enumFilter(p, apikey.FieldEnvironment, apikey.ParseEnvironment),
		Scope:       p.filter(apikey.FieldScope),
		Sort:        p.sort(),
		Page:        p.page(),
	}
}

func purposeOptions(p QueryParams) purpose.QueryOptions {
	return purpose.QueryOptions{
		Search:     p.Search,
		Status:     enumFilter(p, purpose.FieldStatus, purpose.ParseStatus),
		LegalBasis: enumFilter(p, purpose.FieldLegalBasis, purpose.ParseLegalBasis),
		Sort:       p.sort(),
		Page:       p.page(),
	}
}

func webhookOptions(p QueryParams) webhook.QueryOptions {
	return webhook.QueryOptions{
		Search: p.Search,
		Status: enumFilter(p, webhook.FieldStatus, webhook.ParseStatus),
		Event:  p.filter(webhook.FieldEvent),
		Sort:   p.sort(),
		Page:   p.page(),
	}
}

func categoryOptions(p QueryParams) datamap.CategoryOptions {
	return datamap.CategoryOptions{
		Search:      p.Search,
		Sensitivity: enumFilter(p, datamap.FieldSensitivity, datamap.ParseSensitivity),
		Page:        p.page(),
	}
}

func holdingOptions(p QueryParams) datamap.HoldingOptions {
	return datamap.HoldingOptions{
		Search:   p.Search,
		Type:     p.filter(datamap.FieldType),
		Location: p.filter(datamap.FieldLocation),
		Category: p.filter(datamap.FieldCategory),
		Page:     p.page(),
	}
}

func flowOptions(p QueryParams) datamap.FlowOptions {
	return datamap.FlowOptions{Search: p.Search, Category: p.filter(datamap.FieldCategory), Page: p.page()}
}

