package httpx

import (
	"net/http"
	"net/url"
	"strconv"
)

// defaultListLimit is the page size used when a list request does not ask
// for one.
const defaultListLimit = 50

// ParseLimitOffset reads the limit and offset query parameters, clamping
// the limit into [1, maxLimit] and the offset to zero or more. Missing or
// malformed values fall back to the defaults instead of failing.
func ParseLimitOffset(r *http.Request, maxLimit int) (limit, offset int) {
	maxLimit = max(maxLimit, 1)
	query := r.URL.Query()

	limit = min(max(queryInt(query, "limit", defaultListLimit), 1), maxLimit)
	offset = max(queryInt(query, "offset", 0), 0)
	return limit, offset
}

func queryInt(values url.Values, key string, fallback int) int {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
