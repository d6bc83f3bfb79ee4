package discover

import (
	"regexp"
	"strings"
)

// endpointSlug matches reference slugs generated for OpenAPI operations.
// ReadMe names endpoint pages "<method>_<operation>", so a slug starting
// with an HTTP method prefix marks an endpoint page. Pages that happen
// to follow the same convention without being endpoints are accepted;
// the split is best-effort.
var endpointSlug = regexp.MustCompile(`^(get|post|put|patch|delete|del)_[A-Za-z0-9]`)

// IsEndpointURL reports whether u is an endpoint reference page under
// the given reference prefix (e.g. "https://host/reference/").
func IsEndpointURL(u, referencePrefix string) bool {
	if !strings.HasPrefix(u, referencePrefix) {
		return false
	}
	slug := strings.TrimPrefix(u, referencePrefix)
	return endpointSlug.MatchString(slug)
}
