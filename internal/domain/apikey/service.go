package apikey

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/consentdesk/internal/domain/auditlog"
	"github.com/rpggio/consentdesk/internal/id"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/repository"
)

// SecretPrefix starts every key secret.
const SecretPrefix = "cdk_"

// displayPrefixLen is how much of the secret is kept for display.
const displayPrefixLen = 12

// Service handles API key business logic.
type Service struct {
	keys   Repository
	audit  AuditRepository
	engine *query.Engine[Key]
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a new key service. audit may be nil.
func NewService(keys Repository, audit AuditRepository, logger *slog.Logger, opts ...query.Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)
	return &Service{
		keys:   keys,
		audit:  audit,
		engine: query.New(QueryConfig(), opts...),
		now:    time.Now,
		logger: logger,
	}
}

// CreateRequest describes a new key.
type CreateRequest struct {
	Name        string
	Scopes      []string
	Environment Environment
	ExpiresAt   *time.Time
}

// HashSecret returns the stored form of a secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Create issues a new key. The returned secret is not retrievable later.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Created, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || tenantID == "" {
		return nil, ErrInvalidInput
	}
	env := req.Environment
	if env == "" {
		env = EnvironmentTest
	}
	if !env.Valid() {
		return nil, ErrInvalidInput
	}
	for _, scope := range req.Scopes {
		if !slices.Contains(Scopes, scope) {
			return nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, scope)
		}
	}
	now := s.now()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiry must be in the future", ErrInvalidInput)
	}

	secret := SecretPrefix + string(env) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	key := &Key{
		ID:          id.New(id.PrefixAPIKey),
		TenantID:    tenantID,
		Name:        name,
		Prefix:      secret[:displayPrefixLen],
		Hash:        HashSecret(secret),
		Scopes:      slices.Clone(req.Scopes),
		Environment: env,
		Status:      StatusActive,
		CreatedAt:   now,
		ExpiresAt:   req.ExpiresAt,
	}
	if key.Scopes == nil {
		key.Scopes = []string{}
	}
	if err := s.keys.Create(ctx, tenantID, key); err != nil {
		return nil, fmt.Errorf("creating api key: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionAPIKeyCreated, key)
	return &Created{Key: *key, Secret: secret}, nil
}

// Revoke disables a key permanently.
func (s *Service) Revoke(ctx context.Context, tenantID, keyID string) (*Key, error) {
	key, err := s.Get(ctx, tenantID, keyID)
	if err != nil {
		return nil, err
	}
	if key.Status == StatusRevoked {
		return nil, ErrAlreadyRevoked
	}

	now := s.now()
	key.Status = StatusRevoked
	key.RevokedAt = &now
	if err := s.keys.Update(ctx, tenantID, key); err != nil {
		return nil, fmt.Errorf("revoking api key: %w", err)
	}

	s.logAudit(ctx, tenantID, auditlog.ActionAPIKeyRevoked, key)
	return key, nil
}

// Get returns a key by ID.
func (s *Service) Get(ctx context.Context, tenantID, keyID string) (*Key, error) {
	if keyID == "" {
		return nil, ErrInvalidInput
	}
	key, err := s.keys.Get(ctx, tenantID, keyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("getting api key: %w", err)
	}
	return key, nil
}

// ResolveTenant authenticates a presented secret and returns its tenant.
// A successful lookup records the key as used.
func (s *Service) ResolveTenant(ctx context.Context, secret string) (string, error) {
	if !strings.HasPrefix(secret, SecretPrefix) {
		return "", ErrInvalidKey
	}
	key, err := s.keys.GetByHash(ctx, HashSecret(secret))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidKey
		}
		return "", fmt.Errorf("resolving api key: %w", err)
	}

	now := s.now()
	if !key.Usable(now) {
		return "", ErrInvalidKey
	}

	key.LastUsedAt = &now
	if err := s.keys.Update(ctx, key.TenantID, key); err != nil {
		s.logger.Warn("failed to record api key use", "key_id", key.ID, "error", err)
	}
	return key.TenantID, nil
}

// Query returns keys matching opts.
func (s *Service) Query(ctx context.Context, tenantID string, opts QueryOptions) (query.Result[Key], error) {
	keys, err := s.keys.List(ctx, tenantID)
	if err != nil {
		return query.Result[Key]{}, fmt.Errorf("listing api keys: %w", err)
	}
	return s.engine.Query(keys, opts.Params()), nil
}

// Describe lists the queryable key fields.
func (s *Service) Describe() query.Description {
	return s.engine.Describe()
}

func (s *Service) logAudit(ctx context.Context, tenantID, action string, key *Key) {
	if s.audit == nil {
		return
	}
	details, _ := json.Marshal(map[string]any{"key_id": key.ID, "prefix": key.Prefix, "environment": key.Environment})
	if err := s.audit.Log(ctx, tenantID, &auditlog.Entry{
		ActionType: action,
		Initiator:  auditlog.InitiatorAdmin,
		Details:    string(details),
	}); err != nil {
		s.logger.Warn("failed to audit api key change", "key_id", key.ID, "error", err)
	}
}
