// Package query filters, sorts, and pages snapshots of tabular records.
//
// A single Engine is parameterized per entity by a Config that names the
// searchable, filterable, and sortable fields of that entity. Queries are pure
// projections over the snapshot handed in: the input slice is never modified
// and every call allocates its own output, so one Engine may serve any number
// of concurrent callers.
package query

import (
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Any is the filter value that places no constraint on a field.
const Any = "all"

// Params describes one query against a snapshot.
type Params struct {
	SearchText string
	Filters    map[string]string
	Sort       *Sort
	Page       *PageRequest
}

// Result is the filtered, ordered view of a snapshot.
// Total counts every matching record, before paging.
type Result[T any] struct {
	Results       []T    `json:"results"`
	Total         int    `json:"total"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// Env carries the inputs derived filters are evaluated against.
type Env struct {
	Now       time.Time
	WeekStart time.Weekday
}

// Engine runs queries for one entity type.
type Engine[T any] struct {
	cfg     Config[T]
	filters map[string]Filter[T]
	sorts   map[string]SortKey[T]
	opts    options
}

type options struct {
	now       func() time.Time
	weekStart time.Weekday
	pageSize  int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithClock overrides the clock used for date windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithWeekStart sets the weekday "this week" windows start on.
func WithWeekStart(day time.Weekday) Option {
	return func(o *options) { o.weekStart = day }
}

// WithPageSize sets the page size used when a page request omits one.
func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithLogger sets the logger that reports ignored query parameters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New builds an Engine for the given entity configuration.
func New[T any](cfg Config[T], opts ...Option) *Engine[T] {
	o := options{
		now:       time.Now,
		weekStart: time.Monday,
		pageSize:  DefaultMaxResults,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine[T]{
		cfg:     cfg,
		filters: make(map[string]Filter[T], len(cfg.Filters)),
		sorts:   make(map[string]SortKey[T], len(cfg.Sorts)),
		opts:    o,
	}
	for _, f := range cfg.Filters {
		e.filters[f.Name] = f
	}
	for _, s := range cfg.Sorts {
		e.sorts[s.Name] = s
	}
	return e
}

// Entity returns the name of the entity this engine queries.
func (e *Engine[T]) Entity() string {
	return e.cfg.Entity
}

// Describe lists the field names the engine understands.
func (e *Engine[T]) Describe() Description {
	return e.cfg.describe()
}

// Query returns the records matching p in display order.
func (e *Engine[T]) Query(records []T, p Params) Result[T] {
	env := Env{Now: e.opts.now(), WeekStart: e.opts.weekStart}
	needle := strings.ToLower(p.SearchText)
	active := e.constraints(p.Filters)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if needle != "" && !e.matchesSearch(rec, needle) {
			continue
		}
		if !matchesAll(rec, active, env) {
			continue
		}
		out = append(out, rec)
	}

	if key, dir, ok := e.sortKey(p.Sort); ok {
		sortStable(out, key, dir)
	}

	res := Result[T]{Results: out, Total: len(out)}
	if p.Page != nil {
		res.Results, res.NextPageToken = paginate(out, *p.Page, e.opts.pageSize)
	}
	return res
}

func (e *Engine[T]) matchesSearch(rec T, needle string) bool {
	for _, field := range e.cfg.Search {
		value, ok := field.Value(rec)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

type constraint[T any] struct {
	filter Filter[T]
	value  string
}

func (e *Engine[T]) constraints(selected map[string]string) []constraint[T] {
	if len(selected) == 0 {
		return nil
	}
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)

	active := make([]constraint[T], 0, len(names))
	for _, name := range names {
		value := selected[name]
		if Unconstrained(value) {
			continue
		}
		f, ok := e.filters[name]
		if !ok {
			e.opts.logger.Debug("ignoring unknown filter", "entity", e.cfg.Entity, "field", name)
			continue
		}
		active = append(active, constraint[T]{filter: f, value: value})
	}
	return active
}

func matchesAll[T any](rec T, active []constraint[T], env Env) bool {
	for _, c := range active {
		if !c.filter.Match(rec, c.value, env) {
			return false
		}
	}
	return true
}

func (e *Engine[T]) sortKey(s *Sort) (SortKey[T], Direction, bool) {
	if s == nil || s.Field == "" {
		return SortKey[T]{}, "", false
	}
	key, ok := e.sorts[s.Field]
	if !ok {
		e.opts.logger.Debug("ignoring unknown sort field", "entity", e.cfg.Entity, "field", s.Field)
		return SortKey[T]{}, "", false
	}
	return key, s.direction(), true
}

// Unconstrained reports whether a selected filter value places no constraint.
func Unconstrained(value string) bool {
	return value == "" || strings.EqualFold(value, Any)
}
