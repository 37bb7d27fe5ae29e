package smalldiff

import (
	"bytes"
	"math"
	"regexp"
	"strings"
	"testing"
)

func testDiffMap() DiffMap {
	return DiffMap{
		"age":    {Expected: Int(28), Actual: Int(27)},
		"name":   {Expected: String("hello"), Actual: String("help")},
		"tags.1": {Expected: nil, Actual: String("x")},
	}
}

func TestFormatPretty(t *testing.T) {
	got, err := FormatPrettyString(testDiffMap(), false)
	if err != nil {
		t.Fatal(err)
	}
	expect := `age:
  expected: 28
  actual:   27
name:
  expected: "hello"
  actual:   "help"
  diff:     "hel[-lo-]{+p+}"
tags.1:
  expected: <missing>
  actual:   "x"
`
	if got != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, got)
	}
}

func TestFormatPrettyRoot(t *testing.T) {
	got, err := FormatPrettyString(DiffMap{"": {Expected: Int(30), Actual: Int(20)}}, false)
	if err != nil {
		t.Fatal(err)
	}
	expect := "(root):\n  expected: 30\n  actual:   20\n"
	if got != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, got)
	}
}

func TestFormatPrettyColor(t *testing.T) {
	got, err := FormatPrettyString(testDiffMap(), true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in colored output, got:\n%s", got)
	}
	if strings.Contains(got, "[-lo-]") {
		t.Errorf("colored output shouldn't use plain diff markers, got:\n%s", got)
	}
}

func TestFormatJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := FormatJSON(buf, testDiffMap()); err != nil {
		t.Fatal(err)
	}
	expect := `{
  "age": {
    "expected": 28,
    "actual": 27
  },
  "name": {
    "expected": "hello",
    "actual": "help"
  },
  "tags.1": {
    "expected": null,
    "actual": "x"
  }
}
`
	if buf.String() != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, buf.String())
	}
}

func TestFormatYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := FormatYAML(buf, testDiffMap()); err != nil {
		t.Fatal(err)
	}
	got := buf.String()

	// keys come out in path order
	age, name, tags := strings.Index(got, "age:"), strings.Index(got, "name:"), strings.Index(got, "tags.1:")
	if age < 0 || name < age || tags < name {
		t.Errorf("expected paths in order, got:\n%s", got)
	}
	if !strings.Contains(got, "  expected: null\n") {
		t.Errorf("expected missing values to render as null, got:\n%s", got)
	}
}

func TestParseReportFormat(t *testing.T) {
	cases := []struct {
		input  string
		expect ReportFormat
		err    bool
	}{
		{"", ReportPretty, false},
		{"pretty", ReportPretty, false},
		{"JSON", ReportJSON, false},
		{"yaml", ReportYAML, false},
		{"yml", ReportYAML, false},
		{"xml", ReportPretty, true},
	}

	for _, c := range cases {
		got, err := ParseReportFormat(c.input)
		if (err != nil) != c.err {
			t.Errorf("%q: error mismatch. want error: %t, got: %v", c.input, c.err, err)
			continue
		}
		if got != c.expect {
			t.Errorf("%q: want %s, got %s", c.input, c.expect, got)
		}
	}
}

func TestInlineDiff(t *testing.T) {
	cases := []struct {
		expected, actual string
		expect           string
	}{
		{"hello", "help", `"hel[-lo-]{+p+}"`},
		{"abc", "abcd", `"abc{+d+}"`},
		{"same", "same", `"same"`},
	}

	for _, c := range cases {
		if got := inlineDiff(c.expected, c.actual, false); got != c.expect {
			t.Errorf("%q vs %q: want %s, got %s", c.expected, c.actual, c.expect, got)
		}
	}
}

func TestFormatStatsPretty(t *testing.T) {
	cases := []struct {
		description string
		input       *Stats
		expect      string
	}{
		{"all plural",
			&Stats{Expected: 2, Actual: 6, Changed: 2, Added: 6, Removed: 2},
			"+4 nodes. 2 changed. 6 added. 2 removed.\n",
		},
		{"all singular",
			&Stats{Expected: 2, Actual: 1, Changed: 1, Added: 1, Removed: 1},
			"-1 node. 1 changed. 1 added. 1 removed.\n",
		},
		{"no change",
			&Stats{Expected: 3, Actual: 3, Changed: 1},
			"0 nodes. 1 changed. 0 added. 0 removed.\n",
		},
		{"large numbers",
			&Stats{Expected: 0, Actual: 12345, Added: 12345},
			"+12,345 nodes. 0 changed. 12,345 added. 0 removed.\n",
		},
	}

	for i, c := range cases {
		got := FormatPrettyStats(c.input)
		if got != c.expect {
			t.Errorf("%d %s\nwant:\n%s\ngot:\n%s", i, c.description, c.expect, got)
		}
	}
}

func TestFormatStatsNull(t *testing.T) {
	got := FormatPrettyStats(nil)
	expect := ``
	if got != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, got)
	}
}

func TestFormatNonFinite(t *testing.T) {
	d, err := Compare(
		map[string]float64{"a": math.Inf(1), "b": math.NaN(), "c": 1},
		map[string]float64{"a": 1, "b": 2, "c": math.Inf(-1)},
	)
	if err != nil {
		t.Fatal(err)
	}

	pretty, err := FormatPrettyString(d, false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expect := `a:
  expected: "+Inf"
  actual:   1
b:
  expected: "NaN"
  actual:   2
c:
  expected: 1
  actual:   "-Inf"
`
	if pretty != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, pretty)
	}

	buf := &bytes.Buffer{}
	if err := FormatJSON(buf, d); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, s := range []string{`"expected": "+Inf"`, `"expected": "NaN"`, `"actual": "-Inf"`} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("expected JSON report to contain %s, got:\n%s", s, buf.String())
		}
	}

	buf.Reset()
	if err := FormatYAML(buf, d); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, s := range []string{".inf", ".nan"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("expected YAML report to contain %s, got:\n%s", s, buf.String())
		}
	}

	buf.Reset()
	eq, err := IsEqual(map[string]float64{"a": math.NaN()}, map[string]float64{"a": 1}, OptionPrintDiff(buf))
	if err != nil {
		t.Fatal(err)
	}
	if eq {
		t.Error("expected NaN & 1 to differ")
	}
	if !strings.Contains(buf.String(), "a:\n  expected: \"NaN\"\n  actual:   1\n") {
		t.Errorf("expected report entries after the banner, got:\n%s", buf.String())
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestFormatStatsColor(t *testing.T) {
	st := &Stats{Expected: 2, Actual: 6, Changed: 2, Added: 6, Removed: 2}
	got := FormatPrettyStatsColor(st)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes, got: %q", got)
	}
	if plain := ansiEscape.ReplaceAllString(got, ""); plain != FormatPrettyStats(st) {
		t.Errorf("colored stats should read the same as plain stats.\nwant: %q\ngot:  %q", FormatPrettyStats(st), plain)
	}
}
