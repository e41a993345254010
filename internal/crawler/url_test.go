package crawler

import "testing"

// TestNormalize tests URL canonicalization.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "adds https scheme", in: "example.com", want: "https://example.com"},
		{name: "keeps https scheme", in: "https://example.com", want: "https://example.com"},
		{name: "keeps http scheme", in: "http://example.com/page", want: "http://example.com/page"},
		{name: "trims whitespace", in: "  example.com  ", want: "https://example.com"},
		{name: "empty input yields empty output", in: "", want: ""},
		{name: "whitespace-only input yields empty output", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeIdempotent verifies that normalizing twice changes nothing.
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"example.com", "https://example.com/a", " example.com/b ", ""}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

// TestInScope tests crawl scope decisions.
func TestInScope(t *testing.T) {
	t.Parallel()

	const base = "https://example.com"

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "same host page", raw: "https://example.com/about", want: true},
		{name: "schemeless same host", raw: "example.com/contact", want: true},
		{name: "host case is ignored", raw: "https://EXAMPLE.com/x", want: true},
		{name: "different host", raw: "https://other.com/about", want: false},
		{name: "subdomain is a different host", raw: "https://www.example.com/", want: false},
		{name: "mailto link", raw: "mailto:info@example.com", want: false},
		{name: "tel link", raw: "tel:+1234567890", want: false},
		{name: "javascript link", raw: "javascript:void(0)", want: false},
		{name: "fragment-only link", raw: "#section", want: false},
		{name: "pdf document", raw: "https://example.com/report.pdf", want: false},
		{name: "image", raw: "https://example.com/logo.png", want: false},
		{name: "extension inside query string", raw: "https://example.com/download?file=x.pdf", want: false},
		{name: "uppercase extension", raw: "https://example.com/REPORT.PDF", want: false},
		{name: "archive", raw: "https://example.com/bundle.zip", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InScope(tt.raw, base); got != tt.want {
				t.Errorf("InScope(%q, %q) = %v, want %v", tt.raw, base, got, tt.want)
			}
		})
	}
}

// TestInScopeFailsClosed verifies unparseable input is rejected.
func TestInScopeFailsClosed(t *testing.T) {
	t.Parallel()

	if InScope("https://exa mple.com/%zz", "https://example.com") {
		t.Error("expected unparseable URL to be out of scope")
	}
	if InScope("https://example.com/a", "") {
		t.Error("expected empty base to reject everything")
	}
}
