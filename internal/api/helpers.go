package api

import (
	"net"
	"net/http"
	"strconv"

	"github.com/assetbayapp/assetbay-server/internal/service"
)

// parseListParams extracts the listing knobs from the query string.
// Out-of-range page and limit values are corrected by the service.
func parseListParams(r *http.Request) service.ListParams {
	q := r.URL.Query()

	params := service.ListParams{
		Status:   q.Get("status"),
		TypeID:   q.Get("type"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	return params
}

// clientIP returns the request's client address. RealIP middleware has
// already folded X-Forwarded-For / X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
