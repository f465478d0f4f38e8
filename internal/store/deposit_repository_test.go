package store

import (
	"strings"
	"testing"
)

func TestBuildDepositFilterQuery(t *testing.T) {
	status := "pending"
	provider := "provider-x"

	tests := []struct {
		name        string
		filter      DepositFilter
		wantClauses []string
		skipClauses []string
		wantArgs    []interface{}
	}{
		{
			name:        "no filters",
			filter:      DepositFilter{},
			skipClauses: []string{"WHERE"},
			wantArgs:    []interface{}{25},
		},
		{
			name:        "status only",
			filter:      DepositFilter{Status: &status},
			wantClauses: []string{"WHERE d.status = $1", "LIMIT $2"},
			skipClauses: []string{"AND"},
			wantArgs:    []interface{}{"pending", 25},
		},
		{
			name:        "provider only",
			filter:      DepositFilter{Provider: &provider},
			wantClauses: []string{"WHERE d.provider = $1", "LIMIT $2"},
			skipClauses: []string{"AND"},
			wantArgs:    []interface{}{"provider-x", 25},
		},
		{
			name:        "both filters",
			filter:      DepositFilter{Status: &status, Provider: &provider},
			wantClauses: []string{"WHERE d.status = $1", "AND d.provider = $2", "LIMIT $3"},
			wantArgs:    []interface{}{"pending", "provider-x", 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildDepositFilterQuery(tt.filter, 25)

			for _, clause := range tt.wantClauses {
				if !strings.Contains(query, clause) {
					t.Fatalf("query missing %q:\n%s", clause, query)
				}
			}
			for _, clause := range tt.skipClauses {
				if strings.Contains(query, clause) {
					t.Fatalf("query should not contain %q:\n%s", clause, query)
				}
			}
			if !strings.Contains(query, "ORDER BY d.created_at DESC, d.id DESC") {
				t.Fatalf("query missing deterministic ordering:\n%s", query)
			}

			if len(args) != len(tt.wantArgs) {
				t.Fatalf("expected %d args, got %d: %v", len(tt.wantArgs), len(args), args)
			}
			for i, want := range tt.wantArgs {
				if args[i] != want {
					t.Fatalf("arg %d: expected %v, got %v", i, want, args[i])
				}
			}
		})
	}
}
