package utils

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"https", "https://example.com/about", nil},
		{"http with port", "http://example.com:8080/", nil},
		{"empty", "", ErrEmptyURL},
		{"blank", "   ", ErrEmptyURL},
		{"no scheme", "example.com", ErrMalformedURL},
		{"ftp", "ftp://example.com/file", ErrUnsupportedURL},
		{"javascript", "javascript:alert(1)", ErrUnsupportedURL},
		{"no host", "http:///path", ErrMissingHostname},
		{"space", "https://exa mple.com", ErrMalformedURL},
		{"too long", "https://example.com/" + strings.Repeat("a", maxURLLength), ErrURLTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.in, err, tt.want)
			}
			if IsValidURL(tt.in) != (tt.want == nil) {
				t.Errorf("IsValidURL(%q) disagrees with ValidateURL", tt.in)
			}
		})
	}
}

func TestHashURL_Stable(t *testing.T) {
	a := HashURL("https://example.com")
	if a != HashURL("https://example.com") {
		t.Fatal("hash is not deterministic")
	}
	if a == HashURL("https://example.org") {
		t.Fatal("different urls share a hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length: got %d, want 64", len(a))
	}
}

func TestToAbsoluteURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/products/")
	got, err := ToAbsoluteURL(base, "../img/logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://example.com/img/logo.png" {
		t.Errorf("got %q", got)
	}
}

func TestDomain(t *testing.T) {
	if got := Domain("https://shop.example.com/x"); got != "shop.example.com" {
		t.Errorf("got %q", got)
	}
	if got := Domain("::nope"); got != "unknown" {
		t.Errorf("got %q", got)
	}
}
