package auth

import "strings"

// BearerToken extracts the raw token from an Authorization header value.
// The scheme is matched case-insensitively per RFC 7235.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)

	if header == "" {
		return "", ErrNoToken
	}

	parts := strings.SplitN(header, " ", 2)

	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrBadScheme
	}

	token := strings.TrimSpace(parts[1])

	if token == "" {
		return "", ErrNoToken
	}

	return token, nil
}
