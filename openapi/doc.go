// Package openapi turns OpenAPI v3 operations into buildantic descriptors.
//
// An operation's parameters (path, query, and optionally header and cookie)
// and request body are flattened into a single function-calling JSON Schema.
// Validating a payload against that schema yields a Request: the formatted,
// style-encoded path and query plus raw header, cookie, and body maps,
// everything needed to perform the call, without performing it.
//
// Parameter serialization follows the OpenAPI style/explode tables
// (simple/label/matrix for paths, form/spaceDelimited/pipeDelimited/deepObject
// for queries).
//
//	reg, err := openapi.LoadFile("petstore.yaml")
//	if err != nil { ... }
//	tools := reg.OpenAISchemas()
//	req, err := reg.ValidateJSON("getPetById", []byte(`{"petId": 42}`))
//	// req.Method, req.URL(), req.Body ...
package openapi
