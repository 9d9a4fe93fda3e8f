package types

import "math"

// DefaultPageLimit is the page size used when neither the caller nor the
// store provides one.
const DefaultPageLimit = 300

// PageRequest addresses one page of a listing. Page is zero-based; a
// negative Limit selects the default limit.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset returns the number of entities preceding the page. A page whose
// offset does not fit in an int saturates at math.MaxInt, past the end of
// any store.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Limit <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return p.Page * p.Limit
}

// Resolve returns a copy of p with a negative Limit replaced by def.
// A non-positive def falls back to DefaultPageLimit.
func (p PageRequest) Resolve(def int) PageRequest {
	if p.Limit >= 0 {
		return p
	}
	if def <= 0 {
		def = DefaultPageLimit
	}
	p.Limit = def
	return p
}

// DefaultLimiter is implemented by stores that choose their own page size.
type DefaultLimiter interface {
	DefaultLimit() int
}
