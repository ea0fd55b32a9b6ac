package query

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Config describes how one entity type is searched, filtered, and sorted.
type Config[T any] struct {
	Entity  string
	Search  []SearchField[T]
	Filters []Filter[T]
	Sorts   []SortKey[T]
}

// Description names the fields of a Config.
type Description struct {
	Entity  string   `json:"entity"`
	Search  []string `json:"search"`
	Filters []string `json:"filters"`
	Sorts   []string `json:"sorts"`
}

func (c Config[T]) describe() Description {
	d := Description{
		Entity:  c.Entity,
		Search:  make([]string, 0, len(c.Search)),
		Filters: make([]string, 0, len(c.Filters)),
		Sorts:   make([]string, 0, len(c.Sorts)),
	}
	for _, s := range c.Search {
		d.Search = append(d.Search, s.Name)
	}
	for _, f := range c.Filters {
		d.Filters = append(d.Filters, f.Name)
	}
	for _, s := range c.Sorts {
		d.Sorts = append(d.Sorts, s.Name)
	}
	return d
}

// Accessor reads one value from a record; ok is false when the record has no value.
type Accessor[T, V any] func(rec T) (value V, ok bool)

// Text is an Accessor for a field that is always present.
func Text[T any](fn func(T) string) Accessor[T, string] {
	return func(rec T) (string, bool) { return fn(rec), true }
}

// OptionalText is an Accessor for a nullable string field.
func OptionalText[T any](fn func(T) *string) Accessor[T, string] {
	return func(rec T) (string, bool) {
		v := fn(rec)
		if v == nil {
			return "", false
		}
		return *v, true
	}
}

// Enum is an Accessor for a string-backed enumeration field.
// The zero value counts as missing.
func Enum[T any, E ~string](fn func(T) E) Accessor[T, string] {
	return func(rec T) (string, bool) {
		v := fn(rec)
		return string(v), v != ""
	}
}

// Instant is an Accessor for a timestamp field; the zero time counts as missing.
func Instant[T any](fn func(T) time.Time) Accessor[T, time.Time] {
	return func(rec T) (time.Time, bool) {
		v := fn(rec)
		return v, !v.IsZero()
	}
}

// OptionalInstant is an Accessor for a nullable timestamp field.
func OptionalInstant[T any](fn func(T) *time.Time) Accessor[T, time.Time] {
	return func(rec T) (time.Time, bool) {
		v := fn(rec)
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	}
}

// SearchField is a string field eligible for free-text search.
type SearchField[T any] struct {
	Name  string
	Value Accessor[T, string]
}

// Searchable declares a search field.
func Searchable[T any](name string, value Accessor[T, string]) SearchField[T] {
	return SearchField[T]{Name: name, Value: value}
}

// Filter is a named constraint checked against a selected value.
type Filter[T any] struct {
	Name  string
	Match func(rec T, value string, env Env) bool
}

// Equals matches records whose field equals the selected value exactly.
func Equals[T any](name string, value Accessor[T, string]) Filter[T] {
	return Filter[T]{
		Name: name,
		Match: func(rec T, selected string, _ Env) bool {
			v, ok := value(rec)
			return ok && v == selected
		},
	}
}

// Member matches records whose multi-valued field contains the selected value.
func Member[T any](name string, values func(T) []string) Filter[T] {
	return Filter[T]{
		Name: name,
		Match: func(rec T, selected string, _ Env) bool {
			return slices.Contains(values(rec), selected)
		},
	}
}

// Prefix matches records whose compound field, split on sep, starts with the
// selected segment. "consent.granted" has prefix "consent" for sep ".".
func Prefix[T any](name string, value Accessor[T, string], sep string) Filter[T] {
	return Filter[T]{
		Name: name,
		Match: func(rec T, selected string, _ Env) bool {
			v, ok := value(rec)
			if !ok {
				return false
			}
			head, _, _ := strings.Cut(v, sep)
			return head == selected
		},
	}
}

// Within matches records whose timestamp falls inside the selected date window.
// Unrecognized window names place no constraint.
func Within[T any](name string, at Accessor[T, time.Time]) Filter[T] {
	return Filter[T]{
		Name: name,
		Match: func(rec T, selected string, env Env) bool {
			w, ok := ParseWindow(selected)
			if !ok {
				return true
			}
			t, ok := at(rec)
			if !ok {
				return false
			}
			return w.Contains(t, env.Now, env.WeekStart)
		},
	}
}

// SortKey orders records by one field.
type SortKey[T any] struct {
	Name    string
	compare func(a, b T) (c int, aOK, bOK bool)
}

func keyOf[T, V any](name string, value Accessor[T, V], compare func(V, V) int) SortKey[T] {
	return SortKey[T]{
		Name: name,
		compare: func(a, b T) (int, bool, bool) {
			av, aOK := value(a)
			bv, bOK := value(b)
			if !aOK || !bOK {
				return 0, aOK, bOK
			}
			return compare(av, bv), true, true
		},
	}
}

// ByText orders by byte-wise string comparison.
func ByText[T any](name string, value Accessor[T, string]) SortKey[T] {
	return keyOf(name, value, strings.Compare)
}

// ByNumber orders numerically.
func ByNumber[T any](name string, value Accessor[T, float64]) SortKey[T] {
	return keyOf(name, value, cmp.Compare[float64])
}

// ByTime orders chronologically.
func ByTime[T any](name string, value Accessor[T, time.Time]) SortKey[T] {
	return keyOf(name, value, func(a, b time.Time) int { return a.Compare(b) })
}

// ByRank orders an enumeration by a rank table. Values absent from the table
// sort with the missing values.
func ByRank[T any](name string, value Accessor[T, string], ranks map[string]int) SortKey[T] {
	ranked := Accessor[T, int](func(rec T) (int, bool) {
		v, ok := value(rec)
		if !ok {
			return 0, false
		}
		r, ok := ranks[v]
		return r, ok
	})
	return keyOf(name, ranked, cmp.Compare[int])
}
