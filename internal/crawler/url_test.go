package crawler

import (
	"errors"
	"net/url"
	"testing"
)

// TestParseSeed tests seed URL validation.
func TestParseSeed(t *testing.T) {
	t.Parallel()

	valid := []struct {
		in   string
		want string
	}{
		{"https://Shop.Example.com", "https://shop.example.com/"},
		{"http://shop.example:80/deals#top", "http://shop.example/deals"},
		{"shop.example/financing", "https://shop.example/financing"},
		{"  https://shop.example/  ", "https://shop.example/"},
		{"localhost:8080", "https://localhost:8080/"},
	}
	for _, tt := range valid {
		t.Run("valid "+tt.in, func(t *testing.T) {
			t.Parallel()
			u, err := ParseSeed(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.String() != tt.want {
				t.Errorf("ParseSeed(%q) = %q, want %q", tt.in, u.String(), tt.want)
			}
		})
	}

	invalid := []string{
		"",
		"   ",
		"ftp://shop.example/file",
		"mailto:sales@shop.example",
		"javascript:alert(1)",
		"https://",
		"http://[::1",
	}
	for _, in := range invalid {
		t.Run("invalid "+in, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseSeed(in); !errors.Is(err, ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL for %q, got %v", in, err)
			}
		})
	}
}

// TestOrigin tests origin canonicalization.
func TestOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://Shop.Example/a/b", "https://shop.example"},
		{"https://shop.example:443/", "https://shop.example"},
		{"http://shop.example:8080/", "http://shop.example:8080"},
		{"http://[::1]:80/", "http://[::1]"},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := Origin(u); got != tt.want {
			t.Errorf("Origin(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSameSite tests site identity across redirects.
func TestSameSite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"http://shop.example/", "https://shop.example/checkout", true},
		{"https://shop.example/", "https://www.Shop.Example:443/deals", true},
		{"http://127.0.0.1:8080/", "http://127.0.0.1:8080/a", true},
		{"http://127.0.0.1:8080/", "http://127.0.0.1:9090/a", false},
		{"https://shop.example/", "https://lender.example/apply", false},
		{"https://shop.example/", "https://cdn.shop.example/", false},
	}
	for _, tt := range tests {
		a, err := url.Parse(tt.a)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.a, err)
		}
		b, err := url.Parse(tt.b)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.b, err)
		}
		if got := SameSite(a, b); got != tt.want {
			t.Errorf("SameSite(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
