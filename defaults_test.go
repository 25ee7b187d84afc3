package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNormalizeDefault(t *testing.T) {
	tests := []struct {
		name     string
		raw      *string
		semantic string
		want     DefaultValue
		warns    int
	}{
		{"no default", nil, typeString, DefaultValue{Kind: defaultNone}, 0},
		{"increments", strPtr("nextval('users_id_seq'::regclass)"), typeIncrements, DefaultValue{Kind: defaultNone}, 0},
		{"quoted with cast", strPtr("'active'::character varying"), typeString, DefaultValue{Kind: defaultString, Str: "active"}, 0},
		{"escaped quotes", strPtr("'it''s'::text"), typeText, DefaultValue{Kind: defaultString, Str: "it's"}, 0},
		{"bare quoted", strPtr("'pending'"), typeString, DefaultValue{Kind: defaultString, Str: "pending"}, 0},
		{"jsonb object", strPtr("'{}'::jsonb"), typeJsonb, DefaultValue{Kind: defaultString, Str: "{}"}, 0},
		{"integer", strPtr("0"), typeInteger, DefaultValue{Kind: defaultNumber, Num: 0}, 0},
		{"decimal", strPtr("0.05"), typeDecimal, DefaultValue{Kind: defaultNumber, Num: 0.05}, 0},
		{"negative integer", strPtr("-1"), typeInteger, DefaultValue{Kind: defaultNumber, Num: -1}, 0},
		{"bad number", strPtr("not_a_number"), typeInteger, DefaultValue{Kind: defaultNone}, 1},
		{"boolean true", strPtr("true"), typeBoolean, DefaultValue{Kind: defaultBool, Bool: true}, 0},
		{"boolean false", strPtr("false"), typeBoolean, DefaultValue{Kind: defaultBool, Bool: false}, 0},
		{"bad boolean", strPtr("gen_random_bool()"), typeBoolean, DefaultValue{Kind: defaultNone}, 1},
		{"function default", strPtr("now()"), typeTimestamp, DefaultValue{Kind: defaultNone}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			col := &ColumnDescriptor{Name: "col", Default: tt.raw}

			got := normalizeDefault(zerolog.New(&buf), "things", col, tt.semantic)
			if got != tt.want {
				t.Errorf("normalizeDefault() = %+v, want %+v", got, tt.want)
			}
			if n := strings.Count(buf.String(), `"level":"warn"`); n != tt.warns {
				t.Errorf("warnings = %d, want %d (log: %s)", n, tt.warns, buf.String())
			}
			if tt.warns > 0 && !strings.Contains(buf.String(), `"table":"things"`) {
				t.Errorf("warning should name the table: %s", buf.String())
			}
		})
	}
}
