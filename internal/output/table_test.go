package output

import (
	"bytes"
	"testing"
)

func TestWriteTable(t *testing.T) {
	header := []string{"step", "name"}
	rows := [][]string{{"1", "a,b"}, {"10", "c"}}
	cases := []struct {
		format string
		header bool
		want   string
	}{
		{FormatCSV, true, "step,name\n1,\"a,b\"\n10,c\n"},
		{FormatTSV, false, "1\ta,b\n10\tc\n"},
		{FormatText, true, "  step  name\n     1   a,b\n    10     c\n"},
	}
	for _, c := range cases {
		var b bytes.Buffer
		if err := WriteTable(&b, c.format, header, rows, c.header); err != nil {
			t.Fatalf("%s: %v", c.format, err)
		}
		if b.String() != c.want {
			t.Fatalf("%s:\n got:  %q\n want: %q", c.format, b.String(), c.want)
		}
	}
	if err := WriteTable(&bytes.Buffer{}, "xml", header, rows, true); err == nil {
		t.Fatalf("want error for unknown format")
	}
}

func TestFormatFloat(t *testing.T) {
	if FormatFloat(0.5) != "0.5" || FormatFloat(500) != "500" || FormatFloat3(1.0/3) != "0.333" {
		t.Fatalf("float formatting changed")
	}
}
