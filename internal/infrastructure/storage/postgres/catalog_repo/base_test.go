package catalog_repo

import (
	"context"
	"strings"
	"testing"

	"dealerdesk/internal/core/security"
)

func testRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](
		nil,
		"test_table",
		[]string{"id", "owner_id", "code", "name", "version"},
		func() any { return nil },
	)
}

func ownerCtx(owner string) context.Context {
	return security.WithIdentity(context.Background(), &security.Identity{OwnerID: owner})
}

func TestBaseSelect_OwnerScoped(t *testing.T) {
	repo := testRepo()

	q, err := repo.baseSelect(ownerCtx("dealer-1"))
	if err != nil {
		t.Fatalf("baseSelect failed: %v", err)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, owner_id, code, name, version FROM test_table WHERE owner_id = $1"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != "dealer-1" {
		t.Errorf("Args mismatch, want [dealer-1], got %v", args)
	}
}

func TestBaseSelect_NoOwner(t *testing.T) {
	repo := testRepo()

	if _, err := repo.baseSelect(context.Background()); err == nil {
		t.Fatal("expected error without owner identity")
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "name ASC", false},
		{"code", "code ASC", false},
		{"-code", "code DESC", false},
		{"+name", "name ASC", false},
		{"created_at", "created_at ASC", false},
		{"name; DROP TABLE test_table", "", true},
		{"unknown_col", "", true},
		{"-", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseOrderBy(%q) expected error, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseOrderBy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOrderBy_RejectsInjection(t *testing.T) {
	repo := testRepo()

	for _, in := range []string{"name, code", "name ASC; --", "(SELECT 1)"} {
		if got, err := repo.parseOrderBy(in); err == nil && strings.Contains(got, in) {
			t.Errorf("parseOrderBy(%q) passed raw input through: %q", in, got)
		}
	}
}
