package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

const maxURLLength = 2048

var (
	ErrEmptyURL        = errors.New("url is empty")
	ErrURLTooLong      = errors.New("url is too long")
	ErrUnsupportedURL  = errors.New("url scheme must be http or https")
	ErrMalformedURL    = errors.New("url is malformed")
	ErrMissingHostname = errors.New("url has no host")
)

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// ValidateURL accepts absolute http(s) URLs with a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return ErrEmptyURL
	}
	if len(rawURL) > maxURLLength {
		return ErrURLTooLong
	}
	if strings.ContainsAny(rawURL, " \t\r\n") {
		return ErrMalformedURL
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return ErrMalformedURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrUnsupportedURL
	}
	if u.Hostname() == "" {
		return ErrMissingHostname
	}
	return nil
}

// IsValidURL is the boolean form of ValidateURL.
func IsValidURL(rawURL string) bool {
	return ValidateURL(rawURL) == nil
}

// Domain returns the hostname of a URL, or "unknown" if it cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}
