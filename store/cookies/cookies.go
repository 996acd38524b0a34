// Package cookies tracks the per-account session cookies the store backend
// rotates across requests. A jar is an immutable value: merging returns a new
// jar and the caller is responsible for persisting it.
package cookies

import (
	"net/http"
	"sort"
	"strings"
	"time"
)

// Cookie is a single session cookie with the attributes the backend sends.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Domain  string    `json:"domain,omitempty"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// Jar maps cookie names to their current value. At most one entry per name.
type Jar map[string]Cookie

// ParseSetCookieHeaders parses raw Set-Cookie header values. Unparseable
// lines are dropped rather than failing the whole batch.
func ParseSetCookieHeaders(rawValues []string) []Cookie {
	header := http.Header{}
	for _, raw := range rawValues {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		header.Add("Set-Cookie", raw)
	}

	response := http.Response{Header: header}
	parsed := response.Cookies()

	out := make([]Cookie, 0, len(parsed))
	for _, c := range parsed {
		out = append(out, Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Domain:  c.Domain,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	return out
}

// Merge returns a jar where every incoming cookie overwrites any existing
// cookie of the same name. Cookies not mentioned in incoming carry over
// unchanged. Merging an empty incoming set returns the existing jar itself so
// callers can skip needless persistence writes.
func Merge(existing Jar, incoming []Cookie) Jar {
	if len(incoming) == 0 {
		return existing
	}

	merged := make(Jar, len(existing)+len(incoming))
	for name, cookie := range existing {
		merged[name] = cookie
	}
	for _, cookie := range incoming {
		merged[cookie.Name] = cookie
	}
	return merged
}

// Header serializes the jar into a Cookie request header value. Names are
// sorted so the header is deterministic.
func (j Jar) Header() string {
	if len(j) == 0 {
		return ""
	}

	names := make([]string, 0, len(j))
	for name := range j {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+j[name].Value)
	}
	return strings.Join(pairs, "; ")
}
