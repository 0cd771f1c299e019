package types

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type PageRequest struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize clamps the request to a valid 1-based page and bounded limit.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}

	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}

	return p
}

func (p PageRequest) Offset() uint64 {
	p = p.Normalize()
	return uint64((p.Page - 1) * p.Limit)
}

type Page[T any] struct {
	Data       []*T  `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[T any](data []*T, total int64, req PageRequest) *Page[T] {
	req = req.Normalize()
	if data == nil {
		data = make([]*T, 0)
	}

	return &Page[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// MapPage converts the items of a page while keeping its counters.
func MapPage[T, U any](in *Page[T], fn func(*T) *U) *Page[U] {
	out := &Page[U]{
		Data:       make([]*U, 0, len(in.Data)),
		Total:      in.Total,
		Page:       in.Page,
		Limit:      in.Limit,
		TotalPages: in.TotalPages,
	}
	for _, item := range in.Data {
		out.Data = append(out.Data, fn(item))
	}
	return out
}
