package validation

import (
	"strings"
	"testing"
)

type record struct {
	ID     string   `validate:"required"`
	Mode   string   `validate:"omitempty,oneof=fast slow"`
	Tags   []string `validate:"max=2,dive,required"`
	Weight int      `validate:"min=1"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		rec       record
		wantParts []string
	}{
		{
			name: "valid",
			rec:  record{ID: "1", Mode: "fast", Tags: []string{"a"}, Weight: 1},
		},
		{
			name:      "missing id",
			rec:       record{Weight: 1},
			wantParts: []string{"record.ID: field is required"},
		},
		{
			name:      "bad enum and weight",
			rec:       record{ID: "1", Mode: "medium", Weight: 0},
			wantParts: []string{"record.Mode: must be one of [fast slow]", "record.Weight: must be at least 1"},
		},
		{
			name:      "empty tag element",
			rec:       record{ID: "1", Tags: []string{""}, Weight: 2},
			wantParts: []string{"record.Tags[0]: field is required"},
		},
		{
			name:      "too many tags",
			rec:       record{ID: "1", Tags: []string{"a", "b", "c"}, Weight: 2},
			wantParts: []string{"record.Tags: must not exceed 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.rec)
			if len(tt.wantParts) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			for _, part := range tt.wantParts {
				if !strings.Contains(err.Error(), part) {
					t.Errorf("error %q does not mention %q", err, part)
				}
			}
		})
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("expected error for nil")
	}
}
