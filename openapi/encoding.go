package openapi

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Path encoding table (value of parameter "id"):
//
//	[style]  [explode]  [primitive]     [array]              [object {role:admin, firstName:Alex}]
//	simple     false        5            3,4,5                role,admin,firstName,Alex
//	simple     true         5            3,4,5                role=admin,firstName=Alex
//	label      false       .5           .3,4,5               .role,admin,firstName,Alex
//	label      true        .5           .3.4.5               .role=admin.firstName=Alex
//	matrix     false      ;id=5        ;id=3,4,5            ;id=role,admin,firstName,Alex
//	matrix     true       ;id=5     ;id=3;id=4;id=5          ;role=admin;firstName=Alex
//
// Query encoding table:
//
//	form            true     id=5      id=3&id=4&id=5        role=admin&firstName=Alex
//	form            false    id=5         id=3,4,5           id=role,admin,firstName,Alex
//	spaceDelimited  true      n/a      id=3&id=4&id=5                 n/a
//	spaceDelimited  false     n/a       id=3%204%205                  n/a
//	pipeDelimited   true      n/a      id=3&id=4&id=5                 n/a
//	pipeDelimited   false     n/a         id=3|4|5                    n/a
//	deepObject      true      n/a           n/a              id[role]=admin&id[firstName]=Alex

// EncodePathParameter encodes a single path parameter according to style and
// explode. Object keys are serialized in sorted order for determinism.
func EncodePathParameter(name string, value any, enc Encoding) (string, error) {
	style := enc.Style
	if style == "" {
		style = StyleSimple
	}
	var encoded string
	switch val := value.(type) {
	case []any:
		s, err := encodePathArray(name, val, style, enc.Explode)
		if err != nil {
			return "", err
		}
		encoded = s
	case map[string]any:
		s, err := encodePathObject(name, val, style, enc.Explode)
		if err != nil {
			return "", err
		}
		encoded = s
	default:
		if style == StyleMatrix {
			encoded = name + "=" + valueString(value)
		} else {
			encoded = valueString(value)
		}
	}
	switch style {
	case StyleSimple:
		return encoded, nil
	case StyleLabel:
		return "." + encoded, nil
	case StyleMatrix:
		return ";" + encoded, nil
	}
	return "", fmt.Errorf("unsupported path encoding style: %s", style)
}

func encodePathArray(name string, arr []any, style string, explode bool) (string, error) {
	items := make([]string, len(arr))
	for i, v := range arr {
		items[i] = valueString(v)
	}
	switch style {
	case StyleSimple:
		return strings.Join(items, ","), nil
	case StyleLabel:
		if explode {
			return strings.Join(items, "."), nil
		}
		return strings.Join(items, ","), nil
	case StyleMatrix:
		if explode {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = name + "=" + item
			}
			return strings.Join(parts, ";"), nil
		}
		return name + "=" + strings.Join(items, ","), nil
	}
	return "", fmt.Errorf("unsupported path encoding style: %s", style)
}

func encodePathObject(name string, obj map[string]any, style string, explode bool) (string, error) {
	join := func(sep, kvSep string) string {
		parts := make([]string, 0, len(obj))
		for _, k := range sortedKeys(obj) {
			parts = append(parts, k+kvSep+valueString(obj[k]))
		}
		return strings.Join(parts, sep)
	}
	switch style {
	case StyleSimple:
		if explode {
			return join(",", "="), nil
		}
		return join(",", ","), nil
	case StyleLabel:
		if explode {
			return join(".", "="), nil
		}
		return join(",", ","), nil
	case StyleMatrix:
		if explode {
			return join(";", "="), nil
		}
		return name + "=" + join(",", ","), nil
	}
	return "", fmt.Errorf("unsupported path encoding style: %s", style)
}

// EncodeQueryParameter encodes a single query parameter according to style and
// explode. Values are percent-encoded; object keys are serialized in sorted
// order. Unsupported style/value combinations return an error.
func EncodeQueryParameter(name string, value any, enc Encoding) (string, error) {
	style := enc.Style
	if style == "" {
		style = StyleForm
	}
	switch style {
	case StyleForm:
		return encodeQueryForm(name, value, enc.Explode), nil
	case StyleSpaceDelimited, StylePipeDelimited:
		arr, ok := value.([]any)
		if !ok {
			return "", fmt.Errorf("%s style only supports array values", style)
		}
		if enc.Explode {
			parts := make([]string, len(arr))
			for i, v := range arr {
				parts[i] = name + "=" + percentEncode(valueString(v))
			}
			return strings.Join(parts, "&"), nil
		}
		delimiter := "%20"
		if style == StylePipeDelimited {
			delimiter = "|"
		}
		parts := make([]string, len(arr))
		for i, v := range arr {
			parts[i] = percentEncode(valueString(v))
		}
		return name + "=" + strings.Join(parts, delimiter), nil
	case StyleDeepObject:
		obj, ok := value.(map[string]any)
		if !ok || !enc.Explode {
			return "", fmt.Errorf("deepObject style only supports object values with explode")
		}
		parts := make([]string, 0, len(obj))
		for _, k := range sortedKeys(obj) {
			parts = append(parts, name+"["+percentEncode(k)+"]="+percentEncode(valueString(obj[k])))
		}
		return strings.Join(parts, "&"), nil
	}
	return "", fmt.Errorf("unsupported query encoding style: %s", style)
}

func encodeQueryForm(name string, value any, explode bool) string {
	switch val := value.(type) {
	case []any:
		if explode {
			parts := make([]string, len(val))
			for i, v := range val {
				parts[i] = name + "=" + percentEncode(valueString(v))
			}
			return strings.Join(parts, "&")
		}
		parts := make([]string, len(val))
		for i, v := range val {
			parts[i] = percentEncode(valueString(v))
		}
		return name + "=" + strings.Join(parts, ",")
	case map[string]any:
		if explode {
			parts := make([]string, 0, len(val))
			for _, k := range sortedKeys(val) {
				parts = append(parts, k+"="+percentEncode(valueString(val[k])))
			}
			return strings.Join(parts, "&")
		}
		parts := make([]string, 0, len(val))
		for _, k := range sortedKeys(val) {
			parts = append(parts, k+","+percentEncode(valueString(val[k])))
		}
		return name + "=" + strings.Join(parts, ",")
	default:
		return name + "=" + percentEncode(valueString(value))
	}
}

// FormatPath substitutes every {name} placeholder in path with the encoded
// parameter value. Missing parameters and unknown styles return an error.
// Parameters without an encoding entry default to simple without explode.
func FormatPath(path string, params map[string]any, encodings map[string]Encoding) (string, error) {
	var b strings.Builder
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		name := rest[open+1 : open+closing]
		value, ok := params[name]
		if !ok {
			return "", fmt.Errorf("missing path parameter %q", name)
		}
		encoded, err := EncodePathParameter(name, value, encodings[name])
		if err != nil {
			return "", err
		}
		b.WriteString(rest[:open])
		b.WriteString(encoded)
		rest = rest[open+closing+1:]
	}
}

// FormatQuery encodes all query parameters and joins them with "&".
// Parameter names are processed in sorted order for deterministic output.
// Parameters without an encoding entry default to form with explode.
func FormatQuery(params map[string]any, encodings map[string]Encoding) (string, error) {
	parts := make([]string, 0, len(params))
	for _, name := range sortedKeys(params) {
		enc, ok := encodings[name]
		if !ok {
			enc = Encoding{Style: StyleForm, Explode: true}
		}
		part, err := EncodeQueryParameter(name, params[name], enc)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "&"), nil
}

// valueString renders a parameter value: arrays and objects as compact JSON,
// scalars via their JSON literal.
func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// percentEncode escapes everything except unreserved characters and "/",
// matching the encoding the OpenAPI serialization examples use (space becomes
// %20, never "+").
func percentEncode(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '.' || c == '_' || c == '~' || c == '/':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
