package jellyfin

import (
	"net/url"
	"strings"
)

// AuthHeader contains the client identification of an X-Emby-Authorization header.
type AuthHeader struct {
	Version  string
	Device   string
	DeviceID string
	Client   string
	Token    string
}

// IsEmpty returns true if none of the known keys were found.
func (h AuthHeader) IsEmpty() bool {
	return h == AuthHeader{}
}

// ParseAuthHeader parses a header value like:
//
//  MediaBrowser Client="Infuse", Device="AppleTV", DeviceId="xyz", Version="1.0", Token="abc"
//
// It never fails. Missing keys are left empty and unknown keys are ignored.
// Percent-encoded values are unescaped.
func ParseAuthHeader(s string) AuthHeader {
	var result AuthHeader
	for _, part := range splitUnquoted(s, ',') {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		key = strings.TrimPrefix(key, "MediaBrowser ")
		key = strings.TrimPrefix(key, "Emby ")
		key = strings.TrimSpace(key)

		value := strings.Trim(strings.TrimSpace(kv[1]), "\"")
		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}

		switch key {
		case "Version":
			result.Version = value
		case "Device":
			result.Device = value
		case "DeviceId":
			result.DeviceID = value
		case "Client":
			result.Client = value
		case "Token":
			result.Token = value
		}
	}
	return result
}

// splitUnquoted splits s at every sep that's not inside double quotes.
func splitUnquoted(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == sep && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(parts, current.String())
}
