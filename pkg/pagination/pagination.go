package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Page summarizes a paginated result for the response envelope.
type Page struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the requested page to a 1-based value.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize returns params with both fields clamped.
func Normalize(params Params) Params {
	return Params{
		Page:  NormalizePage(params.Page),
		Limit: NormalizeLimit(params.Limit),
	}
}

// Offset converts the normalized params into a row offset.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// PageFor computes the envelope summary for a total row count.
func PageFor(params Params, total int64) Page {
	limit := NormalizeLimit(params.Limit)
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 && total > 0 {
		pages = 1
	}
	return Page{
		Current: NormalizePage(params.Page),
		Pages:   pages,
		Total:   total,
	}
}
