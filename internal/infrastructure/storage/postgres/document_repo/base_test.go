package document_repo

import (
	"testing"
)

func testRepo() *BaseDocumentRepo[any] {
	return NewBaseDocumentRepo[any](
		nil,
		"test_docs",
		[]string{"id", "owner_id", "number", "date", "version"},
		func() any { return nil },
	)
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "date DESC", false},
		// handler default for ledger listings
		{"-date", "date DESC", false},
		{"date", "date ASC", false},
		{"+number", "number ASC", false},
		{"-created_at", "created_at DESC", false},
		{"date DESC", "", true},
		{"number; DROP TABLE test_docs", "", true},
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
