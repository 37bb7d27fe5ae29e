package smalldiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ReportFormat is a layout for human-readable difference reports
type ReportFormat uint8

const (
	// ReportPretty lists each path with its expected & actual values
	ReportPretty ReportFormat = iota
	// ReportJSON writes the DiffMap as indented JSON
	ReportJSON
	// ReportYAML writes the DiffMap as YAML
	ReportYAML
)

func (f ReportFormat) String() string {
	switch f {
	case ReportPretty:
		return "pretty"
	case ReportJSON:
		return "json"
	case ReportYAML:
		return "yaml"
	default:
		return fmt.Sprintf("ReportFormat(%d)", uint8(f))
	}
}

// ParseReportFormat reads a format name as returned by ReportFormat.String
func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(s) {
	case "", "pretty":
		return ReportPretty, nil
	case "json":
		return ReportJSON, nil
	case "yaml", "yml":
		return ReportYAML, nil
	default:
		return ReportPretty, fmt.Errorf("unknown report format %q, expected one of pretty, json, yaml", s)
	}
}

const reportBanner = "============================= expected vs actual =============================="

// WriteReport writes a labeled block followed by the DiffMap in format f.
// Nothing is written if the DiffMap can't be formatted
func WriteReport(w io.Writer, d DiffMap, f ReportFormat, colorTTY bool) error {
	body := &bytes.Buffer{}
	var err error
	switch f {
	case ReportJSON:
		err = FormatJSON(body, d)
	case ReportYAML:
		err = FormatYAML(body, d)
	default:
		err = FormatPretty(body, d, colorTTY)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%s\n%s", reportBanner, body.Bytes())
	return err
}

// FormatPrettyString is a convenience wrapper that outputs to a string instead
// of an io.Writer
func FormatPrettyString(d DiffMap, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, d, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes a text report to w, one block per path in Paths order.
// Mismatched strings get an extra inline diff line marking [-deletions-] and
// {+insertions+}. if colorTTY is true it will add
// red for expected values
// green for actual values
// and color inline diffs instead of using markers
func FormatPretty(w io.Writer, d DiffMap, colorTTY bool) error {
	pal := plainPalette
	if colorTTY {
		pal = colorPalette()
	}

	for _, p := range d.Paths() {
		rec := d[p]
		label := p
		if label == "" {
			label = "(root)"
		}
		exp, err := renderValue(rec.Expected)
		if err != nil {
			return fmt.Errorf("path %q: %w", p, err)
		}
		act, err := renderValue(rec.Actual)
		if err != nil {
			return fmt.Errorf("path %q: %w", p, err)
		}

		fmt.Fprintf(w, "%s:\n", pal.path(label))
		fmt.Fprintf(w, "  expected: %s\n", pal.expected(exp))
		fmt.Fprintf(w, "  actual:   %s\n", pal.actual(act))

		es, eok := rec.Expected.(String)
		as, aok := rec.Actual.(String)
		if eok && aok {
			fmt.Fprintf(w, "  diff:     %s\n", inlineDiff(string(es), string(as), colorTTY))
		}
	}
	return nil
}

// FormatJSON writes d as JSON indented by two spaces
func FormatJSON(w io.Writer, d DiffMap) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// FormatYAML writes d as a YAML document
func FormatYAML(w io.Writer, d DiffMap) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type palette struct {
	path, expected, actual func(a ...interface{}) string
}

var plainPalette = palette{path: fmt.Sprint, expected: fmt.Sprint, actual: fmt.Sprint}

func colorPalette() palette {
	return palette{
		path:     colorFunc(color.Bold),
		expected: colorFunc(color.FgRed),
		actual:   colorFunc(color.FgGreen),
	}
}

func colorFunc(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	// the caller has already decided this output supports color
	c.EnableColor()
	return c.SprintFunc()
}

// renderValue writes v as compact JSON. nil means the location is missing
func renderValue(v Value) (string, error) {
	if v == nil {
		return "<missing>", nil
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func inlineDiff(expected, actual string, colorTTY bool) string {
	dmp := diffmatchpatch.New()
	multiline := strings.Contains(expected, "\n") && strings.Contains(actual, "\n")
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, multiline))
	if colorTTY {
		return dmp.DiffPrettyText(diffs)
	}

	buf := &strings.Builder{}
	for _, df := range diffs {
		switch df.Type {
		case diffmatchpatch.DiffDelete:
			buf.WriteString("[-" + df.Text + "-]")
		case diffmatchpatch.DiffInsert:
			buf.WriteString("{+" + df.Text + "+}")
		default:
			buf.WriteString(df.Text)
		}
	}
	return strconv.Quote(buf.String())
}

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(diffStat *Stats) string {
	return formatStats(diffStat, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(diffStat *Stats) string {
	return formatStats(diffStat, true)
}

func formatStats(ds *Stats, colorTTY bool) string {
	if ds == nil {
		return ""
	}

	neutral, add, remove, change := fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint
	if colorTTY {
		neutral = colorFunc(color.FgWhite)
		add = colorFunc(color.FgGreen)
		remove = colorFunc(color.FgRed)
		change = colorFunc(color.FgBlue)
	}

	nodes := add
	delta := ds.NodeChange()
	nodesWord := "nodes"
	sign := "+"
	if delta < 0 {
		nodes = remove
		sign = ""
	} else if delta == 0 {
		nodes = neutral
		sign = ""
	}
	if delta == 1 || delta == -1 {
		nodesWord = "node"
	}

	buf := &bytes.Buffer{}
	buf.WriteString(fmt.Sprintf("%s %s.", nodes(sign+humanize.Comma(int64(delta))), neutral(nodesWord)))
	buf.WriteString(" " + change(humanize.Comma(int64(ds.Changed))+" changed."))
	buf.WriteString(" " + add(humanize.Comma(int64(ds.Added))+" added."))
	buf.WriteString(" " + remove(humanize.Comma(int64(ds.Removed))+" removed."))
	buf.WriteRune('\n')

	return buf.String()
}
