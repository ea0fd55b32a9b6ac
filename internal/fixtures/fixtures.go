// Package fixtures loads YAML seed files into a tenant.
package fixtures

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rpggio/consentdesk/internal/domain/apikey"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/domain/dsr"
	"github.com/rpggio/consentdesk/internal/domain/grievance"
	"github.com/rpggio/consentdesk/internal/domain/purpose"
	"github.com/rpggio/consentdesk/internal/domain/webhook"
	"gopkg.in/yaml.v3"
)

// Demo is a small seed covering every entity.
//
//go:embed demo.yaml
var Demo []byte

// Seed is the YAML seed file layout.
type Seed struct {
	Purposes   []PurposeSeed   `yaml:"purposes"`
	Categories []CategorySeed  `yaml:"categories"`
	Processors []HoldingSeed   `yaml:"processors"`
	Storages   []HoldingSeed   `yaml:"storages"`
	Flows      []FlowSeed      `yaml:"flows"`
	Requests   []RequestSeed   `yaml:"requests"`
	Grievances []GrievanceSeed `yaml:"grievances"`
	Audit      []AuditSeed     `yaml:"audit"`
	Webhooks   []WebhookSeed   `yaml:"webhooks"`
	Keys       []KeySeed       `yaml:"keys"`
}

type PurposeSeed struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	LegalBasis    string `yaml:"legal_basis"`
	Status        string `yaml:"status"`
	RetentionDays int    `yaml:"retention_days"`
}

// CategorySeed is referenced from holdings and flows by Ref, since IDs are
// assigned on insert.
type CategorySeed struct {
	Ref         string `yaml:"ref"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Sensitivity string `yaml:"sensitivity"`
}

type HoldingSeed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Location    string   `yaml:"location"`
	Categories  []string `yaml:"categories"`
}

type FlowSeed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Categories  []string `yaml:"categories"`
}

type RequestSeed struct {
	UserID      string    `yaml:"user_id"`
	Email       string    `yaml:"email"`
	Name        string    `yaml:"name"`
	Type        string    `yaml:"type"`
	Priority    string    `yaml:"priority"`
	Description string    `yaml:"description"`
	RequestedAt time.Time `yaml:"requested_at"`
	Status      string    `yaml:"status"`
	Resolution  string    `yaml:"resolution"`
}

type GrievanceSeed struct {
	UserID       string    `yaml:"user_id"`
	Subject      string    `yaml:"subject"`
	Description  string    `yaml:"description"`
	Organization string    `yaml:"organization"`
	Priority     string    `yaml:"priority"`
	SubmittedAt  time.Time `yaml:"submitted_at"`
	Status       string    `yaml:"status"`
	Resolution   string    `yaml:"resolution"`
}

type AuditSeed struct {
	ActionType  string    `yaml:"action_type"`
	Initiator   string    `yaml:"initiator"`
	UserID      string    `yaml:"user_id"`
	UserName    string    `yaml:"user_name"`
	SourceIP    string    `yaml:"source_ip"`
	Region      string    `yaml:"region"`
	PurposeName string    `yaml:"purpose"`
	Details     string    `yaml:"details"`
	Timestamp   time.Time `yaml:"timestamp"`
}

type WebhookSeed struct {
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Events      []string `yaml:"events"`
	Status      string   `yaml:"status"`
}

type KeySeed struct {
	Name        string   `yaml:"name"`
	Scopes      []string `yaml:"scopes"`
	Environment string   `yaml:"environment"`
}

// Parse decodes a seed file. Unknown keys are rejected.
func Parse(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed Seed
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// ParseDemo decodes the embedded demo seed.
func ParseDemo() (*Seed, error) {
	return Parse(bytes.NewReader(Demo))
}

// Services are the writers a seed is applied through.
type Services struct {
	Purposes interface {
		Create(ctx context.Context, tenantID string, req purpose.CreateRequest) (*purpose.Purpose, error)
	}
	DataMap interface {
		CreateCategory(ctx context.Context, tenantID string, c datamap.Category) (*datamap.Category, error)
		CreateProcessor(ctx context.Context, tenantID string, p datamap.Processor) (*datamap.Processor, error)
		CreateStorage(ctx context.Context, tenantID string, s datamap.Storage) (*datamap.Storage, error)
		CreateFlow(ctx context.Context, tenantID string, f datamap.Flow) (*datamap.Flow, error)
	}
	Requests interface {
		Create(ctx context.Context, tenantID string, req dsr.CreateRequest) (*dsr.Request, error)
		Transition(ctx context.Context, tenantID string, req dsr.TransitionRequest) (*dsr.Request, error)
	}
	Grievances interface {
		Submit(ctx context.Context, tenantID string, req grievance.SubmitRequest) (*grievance.Grievance, error)
		Transition(ctx context.Context, tenantID string, req grievance.TransitionRequest) (*grievance.Grievance, error)
	}
	Audit interface {
		Log(ctx context.Context, tenantID string, entry *auditlog.Entry) error
	}
	Webhooks interface {
		Create(ctx context.Context, tenantID string, req webhook.CreateRequest) (*webhook.Webhook, error)
		SetStatus(ctx context.Context, tenantID, id string, status webhook.Status) (*webhook.Webhook, error)
	}
	Keys interface {
		Create(ctx context.Context, tenantID string, req apikey.CreateRequest) (*apikey.Created, error)
	}
}

// Report summarizes an applied seed.
type Report struct {
	Counts map[string]int
	// Keys holds the created keys with their one-time secrets.
	Keys []apikey.Created
}

// Apply writes every record in seed to tenantID. It stops at the first error;
// records written before it remain.
func Apply(ctx context.Context, svc Services, tenantID string, seed *Seed) (*Report, error) {
	report := &Report{Counts: map[string]int{}}
	purposeIDs := map[string]string{}
	categoryIDs := map[string]string{}

	for _, p := range seed.Purposes {
		created, err := svc.Purposes.Create(ctx, tenantID, purpose.CreateRequest{
			Name:        p.Name,
			Description: p.Description,
			LegalBasis:  purpose.LegalBasis(p.LegalBasis),
			Status:      purpose.Status(p.Status),
			Retention:   p.RetentionDays,
		})
		if err != nil {
			return report, fmt.Errorf("purpose %q: %w", p.Name, err)
		}
		purposeIDs[p.Name] = created.ID
		report.Counts["purposes"]++
	}

	for _, c := range seed.Categories {
		created, err := svc.DataMap.CreateCategory(ctx, tenantID, datamap.Category{
			Name:        c.Name,
			Description: c.Description,
			Sensitivity: datamap.Sensitivity(c.Sensitivity),
		})
		if err != nil {
			return report, fmt.Errorf("category %q: %w", c.Name, err)
		}
		ref := c.Ref
		if ref == "" {
			ref = c.Name
		}
		categoryIDs[ref] = created.ID
		report.Counts["categories"]++
	}
	resolve := func(refs []string) ([]string, error) {
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			id, ok := categoryIDs[ref]
			if !ok {
				return nil, fmt.Errorf("%w: %s", datamap.ErrUnknownCategory, ref)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	for _, h := range seed.Processors {
		cats, err := resolve(h.Categories)
		if err == nil {
			_, err = svc.DataMap.CreateProcessor(ctx, tenantID, datamap.Processor{
				Name: h.Name, Description: h.Description, Type: h.Type, Location: h.Location, Categories: cats,
			})
		}
		if err != nil {
			return report, fmt.Errorf("processor %q: %w", h.Name, err)
		}
		report.Counts["processors"]++
	}
	for _, h := range seed.Storages {
		cats, err := resolve(h.Categories)
		if err == nil {
			_, err = svc.DataMap.CreateStorage(ctx, tenantID, datamap.Storage{
				Name: h.Name, Description: h.Description, Type: h.Type, Location: h.Location, Categories: cats,
			})
		}
		if err != nil {
			return report, fmt.Errorf("storage %q: %w", h.Name, err)
		}
		report.Counts["storages"]++
	}
	for _, f := range seed.Flows {
		cats, err := resolve(f.Categories)
		if err == nil {
			_, err = svc.DataMap.CreateFlow(ctx, tenantID, datamap.Flow{
				Name: f.Name, Description: f.Description, Source: f.Source, Destination: f.Destination, Categories: cats,
			})
		}
		if err != nil {
			return report, fmt.Errorf("flow %q: %w", f.Name, err)
		}
		report.Counts["flows"]++
	}

	for i, r := range seed.Requests {
		if err := applyRequest(ctx, svc, tenantID, r); err != nil {
			return report, fmt.Errorf("request %d: %w", i, err)
		}
		report.Counts["requests"]++
	}
	for i, g := range seed.Grievances {
		if err := applyGrievance(ctx, svc, tenantID, g); err != nil {
			return report, fmt.Errorf("grievance %d: %w", i, err)
		}
		report.Counts["grievances"]++
	}

	for i, a := range seed.Audit {
		entry := &auditlog.Entry{
			ActionType: a.ActionType,
			Initiator:  auditlog.Initiator(a.Initiator),
			UserID:     a.UserID,
			UserName:   a.UserName,
			SourceIP:   a.SourceIP,
			Region:     a.Region,
			Details:    a.Details,
			Timestamp:  a.Timestamp,
		}
		if a.PurposeName != "" {
			name := a.PurposeName
			entry.PurposeName = &name
			if id, ok := purposeIDs[name]; ok {
				entry.PurposeID = &id
			}
		}
		if err := svc.Audit.Log(ctx, tenantID, entry); err != nil {
			return report, fmt.Errorf("audit entry %d: %w", i, err)
		}
		report.Counts["audit"]++
	}

	for _, w := range seed.Webhooks {
		created, err := svc.Webhooks.Create(ctx, tenantID, webhook.CreateRequest{
			URL: w.URL, Description: w.Description, Events: w.Events,
		})
		if err == nil && w.Status != "" && webhook.Status(w.Status) != created.Status {
			_, err = svc.Webhooks.SetStatus(ctx, tenantID, created.ID, webhook.Status(w.Status))
		}
		if err != nil {
			return report, fmt.Errorf("webhook %q: %w", w.URL, err)
		}
		report.Counts["webhooks"]++
	}

	for _, k := range seed.Keys {
		created, err := svc.Keys.Create(ctx, tenantID, apikey.CreateRequest{
			Name:        k.Name,
			Scopes:      k.Scopes,
			Environment: apikey.Environment(k.Environment),
		})
		if err != nil {
			return report, fmt.Errorf("key %q: %w", k.Name, err)
		}
		report.Keys = append(report.Keys, *created)
		report.Counts["keys"]++
	}

	return report, nil
}

// applyRequest creates a request and walks it to its seeded status.
func applyRequest(ctx context.Context, svc Services, tenantID string, r RequestSeed) error {
	created, err := svc.Requests.Create(ctx, tenantID, dsr.CreateRequest{
		UserID:      r.UserID,
		Email:       r.Email,
		Name:        r.Name,
		Type:        dsr.RequestType(r.Type),
		Priority:    dsr.Priority(r.Priority),
		Description: r.Description,
		RequestedAt: r.RequestedAt,
	})
	if err != nil {
		return err
	}

	target := dsr.Status(r.Status)
	var path []dsr.Status
	switch target {
	case "", dsr.StatusPending:
	case dsr.StatusInProgress, dsr.StatusRejected:
		path = []dsr.Status{target}
	default:
		path = []dsr.Status{dsr.StatusInProgress, target}
	}
	for _, to := range path {
		req := dsr.TransitionRequest{ID: created.ID, ToState: to}
		if to == target && r.Resolution != "" {
			note := r.Resolution
			req.ResolutionNote = &note
		}
		if _, err := svc.Requests.Transition(ctx, tenantID, req); err != nil {
			return err
		}
	}
	return nil
}

// applyGrievance submits a grievance and walks it to its seeded status.
func applyGrievance(ctx context.Context, svc Services, tenantID string, g GrievanceSeed) error {
	created, err := svc.Grievances.Submit(ctx, tenantID, grievance.SubmitRequest{
		UserID:       g.UserID,
		Subject:      g.Subject,
		Description:  g.Description,
		Organization: g.Organization,
		Priority:     grievance.Priority(g.Priority),
		SubmittedAt:  g.SubmittedAt,
	})
	if err != nil {
		return err
	}

	target := grievance.Status(g.Status)
	var path []grievance.Status
	switch target {
	case "", grievance.StatusOpen:
	case grievance.StatusInProgress, grievance.StatusEscalated, grievance.StatusClosed:
		path = []grievance.Status{target}
	default:
		path = []grievance.Status{grievance.StatusInProgress, target}
	}
	for _, to := range path {
		req := grievance.TransitionRequest{ID: created.ID, ToState: to}
		if to == target && g.Resolution != "" {
			note := g.Resolution
			req.Resolution = &note
		}
		if _, err := svc.Grievances.Transition(ctx, tenantID, req); err != nil {
			return err
		}
	}
	return nil
}
