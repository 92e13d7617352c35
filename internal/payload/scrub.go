package payload

import "strings"

// IsDataURI reports whether s is an inline embedded-encoding reference.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// IsBlobURL reports whether s is a browser-local transient handle. These
// are meaningless outside the client that created them.
func IsBlobURL(s string) bool {
	return strings.HasPrefix(s, "blob:")
}

// IsBinaryField reports whether a key names embedded binary content.
func IsBinaryField(key string) bool {
	return binaryFieldNames[key]
}

// LooksLikeURL reports whether a free-text value is usable as an asset
// reference: an absolute http(s) URL or a root-relative path. Both the
// transient store and the durable store hand out root-relative URLs, so
// the prefix must not be hardcoded here.
func LooksLikeURL(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return true
	}
	return strings.HasPrefix(s, "/") && !strings.ContainsAny(s, " \t\r\n")
}

// StripBinary walks an arbitrary decoded tree and removes every field
// named as binary content and every string value that is a data URI.
// Returns the number of removals. Payload shapes vary across types and
// historical versions, so this exhaustive pass backs up the targeted
// per-shape replacement done by the sanitizer.
func StripBinary(node interface{}) (interface{}, int) {
	switch v := node.(type) {
	case map[string]interface{}:
		removed := 0
		for key, child := range v {
			if IsBinaryField(key) {
				delete(v, key)
				removed++
				continue
			}
			if s, ok := child.(string); ok && IsDataURI(s) {
				delete(v, key)
				removed++
				continue
			}
			cleaned, n := StripBinary(child)
			v[key] = cleaned
			removed += n
		}
		return v, removed
	case []interface{}:
		removed := 0
		out := v[:0]
		for _, child := range v {
			if s, ok := child.(string); ok && IsDataURI(s) {
				removed++
				continue
			}
			cleaned, n := StripBinary(child)
			removed += n
			out = append(out, cleaned)
		}
		return out, removed
	default:
		return node, 0
	}
}

// Scrub runs StripBinary over the payload in place and returns the number
// of fields removed. Scrubbing already-clean content is a no-op.
func (p *Payload) Scrub() int {
	tree, removed := StripBinary(p.ToMap())
	m, _ := tree.(map[string]interface{})
	*p = *FromMap(m)
	return removed
}

// HasEmbeddedBinary reports whether any data-URI string or binary field
// survives anywhere in the tree. Used for post-save verification.
func HasEmbeddedBinary(node interface{}) bool {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, child := range v {
			if IsBinaryField(key) {
				return true
			}
			if s, ok := child.(string); ok && IsDataURI(s) {
				return true
			}
			if HasEmbeddedBinary(child) {
				return true
			}
		}
	case []interface{}:
		for _, child := range v {
			if s, ok := child.(string); ok && IsDataURI(s) {
				return true
			}
			if HasEmbeddedBinary(child) {
				return true
			}
		}
	case string:
		return IsDataURI(v)
	}
	return false
}

// CollectURLs gathers every string anywhere in the tree that looks like a
// file reference, including data: and blob: values so callers can reject
// them. Order is not significant.
func CollectURLs(node interface{}) []string {
	var urls []string
	collectURLs(node, &urls)
	return urls
}

func collectURLs(node interface{}, out *[]string) {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, child := range v {
			if IsBinaryField(key) {
				continue
			}
			collectURLs(child, out)
		}
	case []interface{}:
		for _, child := range v {
			collectURLs(child, out)
		}
	case string:
		if LooksLikeURL(v) || IsDataURI(v) || IsBlobURL(v) {
			*out = append(*out, v)
		}
	}
}
