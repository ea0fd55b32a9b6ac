package query

import (
	"slices"
	"strings"
)

// Direction is the order a sort key is applied in.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultDirection applies when a sort field is first selected.
const DefaultDirection = Desc

// ParseDirection reads a direction, falling back to DefaultDirection.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc
	case "desc", "descending":
		return Desc
	default:
		return DefaultDirection
	}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Sort selects a sort field and direction.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction,omitempty"`
}

func (s Sort) direction() Direction {
	if s.Direction == Asc || s.Direction == Desc {
		return s.Direction
	}
	return DefaultDirection
}

// Toggle returns the sort that results from selecting field while current is
// active: the same field reverses direction, a new field starts descending.
func Toggle(current *Sort, field string) *Sort {
	if current != nil && current.Field == field {
		return &Sort{Field: field, Direction: current.direction().Reverse()}
	}
	return &Sort{Field: field, Direction: DefaultDirection}
}

// PriorityRank orders the priority enumeration shared by requests and grievances.
var PriorityRank = map[string]int{
	"low":    0,
	"medium": 1,
	"high":   2,
	"urgent": 3,
}

// sortStable orders records in place. Records missing the key go last in
// either direction; ties keep their input order.
func sortStable[T any](records []T, key SortKey[T], dir Direction) {
	slices.SortStableFunc(records, func(a, b T) int {
		c, aOK, bOK := key.compare(a, b)
		switch {
		case !aOK && !bOK:
			return 0
		case !aOK:
			return 1
		case !bOK:
			return -1
		}
		if dir == Desc {
			return -c
		}
		return c
	})
}
