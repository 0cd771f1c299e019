package server

import (
	"net/http"
	"strconv"
	"time"

	"sharehope/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
)

var decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 || vals[0] == "" {
			return time.Time{}, nil
		}
		if t, err := time.Parse(time.RFC3339, vals[0]); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, vals[0])
	}, time.Time{})
	return d
}

// decodeQuery fills a filter and the page request from the query string.
func decodeQuery(r *http.Request, filter any) (types.PageRequest, error) {
	values := r.URL.Query()

	if filter != nil {
		if err := decoder.Decode(filter, values); err != nil {
			return types.PageRequest{}, types.Invalid("query", "invalid query parameters")
		}
	}

	var page types.PageRequest
	if err := decoder.Decode(&page, values); err != nil {
		return types.PageRequest{}, types.Invalid("query", "invalid page parameters")
	}

	return page, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := flow.Param(r.Context(), name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, types.Invalid(name, "must be a positive integer")
	}

	return id, nil
}
