package utils

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL    = errors.New("empty url")
	ErrMissingHost = errors.New("missing host")
)

// HostOf extracts a normalized host from raw. Schemeless input such as
// "paypal-security-check.org/login" is accepted. The host is lower-cased,
// converted from IDN to punycode and stripped of a leading "www.".
//
// Examples:
//
//	"https://WWW.Example.com:8443/a" -> "example.com"
//	"secure-bank-verification.net"  -> "secure-bank-verification.net"
//	"https://例え.テスト/a"           -> "xn--r8jz45g.xn--zckzah"
func HostOf(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", ErrMissingHost
	}
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	return strings.TrimPrefix(host, "www."), nil
}

// SameHost reports whether a and b resolve to the same normalized host.
// Unparseable input never matches.
func SameHost(a, b string) bool {
	ha, err := HostOf(a)
	if err != nil {
		return false
	}
	hb, err := HostOf(b)
	if err != nil {
		return false
	}
	return ha == hb
}
