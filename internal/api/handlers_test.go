package api

import (
	"net/http/httptest"
	"testing"
)

func TestFilterValue(t *testing.T) {
	tests := []struct {
		input string
		want  *string
	}{
		{input: "", want: nil},
		{input: "all", want: nil},
		{input: "pending", want: strPtr("pending")},
		{input: "provider-x", want: strPtr("provider-x")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := filterValue(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected nil=%v, got %v", tt.want == nil, got)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("expected %q, got %q", *tt.want, *got)
			}
		})
	}
}

func TestQueryLimit(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{url: "/transactions", want: 0},
		{url: "/transactions?limit=25", want: 25},
		{url: "/transactions?limit=abc", want: 0},
		{url: "/transactions?limit=-5", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := queryLimit(r); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{name: "well formed", header: "Bearer abc123", want: "abc123", wantOK: true},
		{name: "missing", header: "", wantOK: false},
		{name: "wrong scheme", header: "Basic abc123", wantOK: false},
		{name: "no token", header: "Bearer ", wantOK: false},
		{name: "lowercase scheme rejected", header: "bearer abc123", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
