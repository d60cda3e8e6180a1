package openapi

// Path parameter encoding styles.
const (
	StyleSimple = "simple"
	StyleLabel  = "label"
	StyleMatrix = "matrix"
)

// Query parameter encoding styles. spaceDelimited and pipeDelimited support
// only array values; deepObject supports only object values with explode.
const (
	StyleForm           = "form"
	StyleSpaceDelimited = "spaceDelimited"
	StylePipeDelimited  = "pipeDelimited"
	StyleDeepObject     = "deepObject"
)

// Reserved property keys in flattened operation schemas. A parameter whose
// name collides with one of these (or with a parameter from another location)
// forces its whole location to nest under the reserved key.
const (
	KeyRequestPath   = "requestPath"
	KeyRequestQuery  = "requestQuery"
	KeyRequestHeader = "requestHeader"
	KeyRequestCookie = "requestCookie"
	KeyRequestBody   = "requestBody"
)

// Encoding describes how a single parameter value is serialized.
type Encoding struct {
	Style   string
	Explode bool
}

// ParamMeta carries the object schema for one parameter location plus the
// per-parameter encodings (path and query only).
type ParamMeta struct {
	// Schema is an object schema: {"type":"object","properties":...,"required":...}.
	// For the body location it is the body schema itself.
	Schema    map[string]any
	Encodings map[string]Encoding
}

// Operation is the distilled form of one OpenAPI operation: everything needed
// to emit a function-calling schema and rebuild a request from validated input.
type Operation struct {
	ID           string
	Method       string // lowercase: get, post, put, delete, patch, head, options
	Path         string // template form, e.g. /users/{userId}
	Description  string // summary, or description when no summary is set
	PathMeta     *ParamMeta
	QueryMeta    *ParamMeta
	HeaderMeta   *ParamMeta
	CookieMeta   *ParamMeta
	BodyMeta     *ParamMeta
	BodyRequired bool
}
