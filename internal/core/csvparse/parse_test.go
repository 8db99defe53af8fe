package csvparse

import (
	"reflect"
	"strings"
	"testing"

	perr "mgnrega/internal/platform/errors"
)

func TestSplitLine_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "plain", in: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "trims cells", in: " a , b ,c ", want: []string{"a", "b", "c"}},
		{name: "empty cells", in: ",,", want: []string{"", "", ""}},
		{name: "quoted comma", in: `x,"PUNE, CITY",y`, want: []string{"x", "PUNE, CITY", "y"}},
		{name: "escaped quotes", in: `"a,""b"",c"`, want: []string{`a,"b",c`}},
		{name: "only escaped pair", in: `""""`, want: []string{`"`}},
		{name: "empty quoted", in: `"",z`, want: []string{"", "z"}},
		{name: "unterminated quote keeps rest", in: `a,"b,c`, want: []string{"a", "b,c"}},
		{name: "single field", in: "NA", want: []string{"NA"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitLine(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitLine(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	var b strings.Builder
	b.WriteString("state_name,district_name,fin_year,month,Total_Exp\n")
	const n = 25
	for i := 0; i < n; i++ {
		b.WriteString("MAHARASHTRA,PUNE,2024-2025,Jan,100\n")
	}

	rows, err := Parse(b.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != n {
		t.Fatalf("rows = %d, want %d", len(rows), n)
	}
	for i, r := range rows {
		if len(r) != 5 {
			t.Fatalf("row %d has %d keys, want 5", i, len(r))
		}
		for _, k := range []string{"state_name", "district_name", "fin_year", "month", "Total_Exp"} {
			if _, ok := r[k]; !ok {
				t.Fatalf("row %d missing key %q", i, k)
			}
		}
	}
}

func TestParse_RaggedRowsAndBlankLines(t *testing.T) {
	in := "\ufeffa, b ,c\r\n\r\n1,2\r\n   \n4,5,6,7\n\"x,y\",\"say \"\"hi\"\"\", z \n"
	rows, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Row{
		{"a": "1", "b": "2", "c": ""},
		{"a": "4", "b": "5", "c": "6"},
		{"a": "x,y", "b": `say "hi"`, "c": "z"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v\nwant %#v", rows, want)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, err := Parse("a,b\n\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestParse_LeadingBlankLinesBeforeHeader(t *testing.T) {
	rows, err := Parse("\n\n a,b \n1,2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 1 || rows[0]["a"] != "1" || rows[0]["b"] != "2" {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestParse_NoHeader(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\r\n", "\ufeff"} {
		_, err := Parse(in)
		if err != ErrNoHeader {
			t.Fatalf("Parse(%q) err = %v, want ErrNoHeader", in, err)
		}
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("ErrNoHeader code = %v", perr.CodeOf(err))
		}
	}
}
