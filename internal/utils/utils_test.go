package utils

import (
	"errors"
	"testing"
)

func TestHostOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://WWW.Example.com:8443/a?b=1", "example.com"},
		{"secure-bank-verification.net", "secure-bank-verification.net"},
		{"paypal-security-check.org/login", "paypal-security-check.org"},
		{"http://github.com", "github.com"},
		{"https://例え.テスト/a", "xn--r8jz45g.xn--zckzah"},
	}

	for _, tt := range tests {
		got, err := HostOf(tt.in)
		if err != nil {
			t.Fatalf("HostOf(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("HostOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHostOf_Errors(t *testing.T) {
	if _, err := HostOf("   "); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
	if _, err := HostOf("https:///path-only"); !errors.Is(err, ErrMissingHost) {
		t.Errorf("expected ErrMissingHost, got %v", err)
	}
}

func TestSameHost(t *testing.T) {
	if !SameHost("https://www.bank.com/login", "http://bank.com") {
		t.Error("expected www and bare host to match")
	}
	if SameHost("https://bank.com", "https://evil.example") {
		t.Error("different hosts must not match")
	}
	if SameHost("", "bank.com") {
		t.Error("empty input must not match")
	}
}
