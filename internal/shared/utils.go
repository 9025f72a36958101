package shared

import (
	"net/url"
	"strings"
)

// RedactURL hides the password in a connection URL. Strings that do not
// parse as URLs are returned with everything before the last '@' masked.
func RedactURL(raw string) string {
	if raw == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return u.Redacted()
	}

	if i := strings.LastIndex(raw, "@"); i >= 0 {
		return "xxxxx" + raw[i:]
	}
	return raw
}

// ParseBool accepts "true" in any case as true; everything else is false
func ParseBool(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}
