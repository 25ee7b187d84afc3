package main

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func TestResolveType(t *testing.T) {
	tests := []struct {
		name     string
		col      ColumnDescriptor
		want     string
		wantArgs []string
	}{
		{"integer", ColumnDescriptor{Name: "count", DataType: "integer"}, typeInteger, nil},
		{"varchar", ColumnDescriptor{Name: "token", DataType: "character varying"}, typeString, nil},
		{"varchar with length", ColumnDescriptor{Name: "email", DataType: "character varying", CharMaxLen: intPtr(255)}, typeString, []string{"255"}},
		{"jsonb", ColumnDescriptor{Name: "payload", DataType: "jsonb"}, typeJsonb, nil},
		{"timestamptz", ColumnDescriptor{Name: "created_at", DataType: "timestamp with time zone"}, typeTimestamp, nil},
		{"text", ColumnDescriptor{Name: "body", DataType: "text"}, typeText, nil},
		{"boolean", ColumnDescriptor{Name: "active", DataType: "boolean"}, typeBoolean, nil},
		{"real", ColumnDescriptor{Name: "score", DataType: "real"}, typeFloat, nil},
		{"numeric", ColumnDescriptor{Name: "price", DataType: "numeric"}, typeDecimal, nil},
		{"numeric with precision", ColumnDescriptor{Name: "price", DataType: "numeric", Precision: intPtr(10)}, typeDecimal, []string{"10"}},
		{"auto increment", ColumnDescriptor{Name: "id", DataType: "integer", Default: strPtr("nextval('users_id_seq'::regclass)")}, typeIncrements, nil},
		{"integer with plain default", ColumnDescriptor{Name: "attempts", DataType: "integer", Default: strPtr("0")}, typeInteger, nil},
		{"user defined", ColumnDescriptor{Name: "status", DataType: "USER-DEFINED", Default: strPtr("'draft'::post_status")}, typeSpecific, []string{"post_status"}},
		{"user defined quoted cast", ColumnDescriptor{Name: "status", DataType: "USER-DEFINED", Default: strPtr(`'draft'::"PostStatus"`)}, typeSpecific, []string{"PostStatus"}},
		{"citext", ColumnDescriptor{Name: "handle", DataType: "USER-DEFINED", Default: strPtr("''::citext")}, typeSpecific, []string{"citext"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveType(&tt.col)
			if err != nil {
				t.Fatalf("resolveType() error: %v", err)
			}
			if got.SemanticType != tt.want {
				t.Errorf("SemanticType = %q, want %q", got.SemanticType, tt.want)
			}
			if len(got.Args) != len(tt.wantArgs) {
				t.Fatalf("Args = %v, want %v", got.Args, tt.wantArgs)
			}
			for i := range got.Args {
				if got.Args[i] != tt.wantArgs[i] {
					t.Errorf("Args[%d] = %q, want %q", i, got.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestResolveType_Unsupported(t *testing.T) {
	_, err := resolveType(&ColumnDescriptor{Name: "location", DataType: "point"})
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if !strings.Contains(err.Error(), "unsupported column type") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(err.Error(), "location") {
		t.Errorf("error should name the column: %v", err)
	}
}

func TestResolveType_SpecificTypeNeedsCast(t *testing.T) {
	_, err := resolveType(&ColumnDescriptor{Name: "status", DataType: "USER-DEFINED", Default: strPtr("'draft'")})
	if err == nil {
		t.Fatal("expected error for default without ::type cast")
	}

	_, err = resolveType(&ColumnDescriptor{Name: "status", DataType: "USER-DEFINED"})
	if err == nil {
		t.Fatal("expected error for missing default")
	}
}
