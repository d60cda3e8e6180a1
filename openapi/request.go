package openapi

// Request is the normalized outcome of validating input against an operation:
// the formatted, style-encoded path plus raw parameter maps. It describes an
// HTTP call without performing it.
type Request struct {
	Method       string         // lowercase HTTP method
	Path         string         // formatted and encoded path
	Query        map[string]any // raw query mapping, nil when empty
	EncodedQuery string         // formatted and encoded query string
	Headers      map[string]any // raw header mapping, nil when empty
	Cookies      map[string]any // raw cookie mapping, nil when empty
	Body         any            // validated body value (usually an object), nil when absent
}

// URL returns the path joined with the encoded query, when present.
func (r *Request) URL() string {
	if r.EncodedQuery == "" {
		return r.Path
	}
	return r.Path + "?" + r.EncodedQuery
}
