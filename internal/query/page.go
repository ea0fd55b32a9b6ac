package query

import (
	"encoding/base64"
	"strconv"
)

// DefaultMaxResults is the page size when none is specified.
const DefaultMaxResults = 100

// MaxMaxResults is the largest page size honored.
const MaxMaxResults = 1000

// PageRequest selects one page of a result.
type PageRequest struct {
	MaxResults int    `json:"max_results,omitempty"`
	PageToken  string `json:"page_token,omitempty"`
}

// Offset decodes the page token. Empty or malformed tokens start at 0.
func (p PageRequest) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	decoded, err := base64.StdEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// Limit returns the effective page size, clamped to [1, MaxMaxResults].
func (p PageRequest) Limit(fallback int) int {
	if p.MaxResults <= 0 {
		if fallback <= 0 {
			return DefaultMaxResults
		}
		return min(fallback, MaxMaxResults)
	}
	return min(p.MaxResults, MaxMaxResults)
}

// EncodePageToken creates an opaque page token from an offset.
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextPageToken returns the token for the page after [offset, offset+limit),
// or "" when there is none.
func NextPageToken(offset, limit, total int) string {
	next := offset + limit
	if next >= total {
		return ""
	}
	return EncodePageToken(next)
}

func paginate[T any](records []T, p PageRequest, fallback int) ([]T, string) {
	offset := min(p.Offset(), len(records))
	limit := p.Limit(fallback)
	end := min(offset+limit, len(records))
	return records[offset:end], NextPageToken(offset, limit, len(records))
}
