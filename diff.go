package smalldiff

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"

	"github.com/mattn/go-isatty"
)

// Compare normalizes expected & actual and returns a DiffMap of every location
// where they disagree. Inputs that are equal according to reflect.DeepEqual
// return an empty DiffMap without being normalized. Otherwise expected & actual
// must share the same runtime type or Compare fails with a *TypeMismatchError
func Compare(expected, actual interface{}, opts ...DiffOption) (DiffMap, error) {
	return New(opts...).Compare(expected, actual)
}

// IsEqual is true iff Compare returns an empty DiffMap. Unlike Compare,
// IsEqual writes a report of any differences to stdout by default, pass
// OptionPrintDiff(nil) to silence it
func IsEqual(expected, actual interface{}, opts ...DiffOption) (bool, error) {
	return New(opts...).IsEqual(expected, actual)
}

// DiffConfig are any possible configuration parameters for comparing values
type DiffConfig struct {
	// Normalizer replaces the default normalization rule chain when non-nil
	Normalizer Normalizer
	// Report receives a human-readable report when differences are found
	Report io.Writer
	// ReportFormat picks the report layout, defaults to ReportPretty
	ReportFormat ReportFormat
	// Color controls ANSI colors in pretty reports
	Color ColorMode
	// Provide a non-nil stats pointer & Compare will populate it with data
	// from the comparison
	Stats *Stats
	// Logger receives debug output, nil discards
	Logger *slog.Logger

	reportSet bool
}

// DiffOption is a function that adjusts a config, zero or more DiffOptions
// can be passed to New, Compare & IsEqual
type DiffOption func(cfg *DiffConfig)

// OptionNormalizer sets a custom Normalizer
func OptionNormalizer(n Normalizer) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Normalizer = n
	}
}

// OptionPrintDiff writes a report to w when differences are found. A nil
// writer disables reporting
func OptionPrintDiff(w io.Writer) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Report = w
		cfg.reportSet = true
	}
}

// OptionReportFormat sets the layout of printed reports
func OptionReportFormat(f ReportFormat) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.ReportFormat = f
	}
}

// OptionColor forces colors in printed reports on or off. Without it colors
// are used when the report writer is a terminal
func OptionColor(on bool) DiffOption {
	return func(cfg *DiffConfig) {
		if on {
			cfg.Color = ColorAlways
		} else {
			cfg.Color = ColorNever
		}
	}
}

// OptionSetStats will set the passed-in stats pointer when Compare is called.
// each call overwrites it, concurrent calls need their own SmallDiff
func OptionSetStats(st *Stats) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Stats = st
	}
}

// OptionLogger sets a logger for debug output
func OptionLogger(l *slog.Logger) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Logger = l
	}
}

// ColorMode controls ANSI colors in reports
type ColorMode uint8

const (
	// ColorAuto colors reports written to a terminal
	ColorAuto ColorMode = iota
	// ColorAlways always colors reports
	ColorAlways
	// ColorNever never colors reports
	ColorNever
)

// enabled resolves the mode for a given writer
func (m ColorMode) enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var discard = slog.New(slog.DiscardHandler)

// SmallDiff is a configured comparer. It holds no state between calls & is
// safe for concurrent use as long as any configured Normalizer is, with one
// exception: every call writes to the Stats set with OptionSetStats, so a
// SmallDiff collecting stats must not be shared between goroutines
type SmallDiff struct {
	cfg DiffConfig
}

// New creates a SmallDiff with the given options applied
func New(opts ...DiffOption) *SmallDiff {
	sd := &SmallDiff{}
	for _, opt := range opts {
		opt(&sd.cfg)
	}
	if sd.cfg.Logger == nil {
		sd.cfg.Logger = discard
	}
	return sd
}

// Compare returns a DiffMap of every location where expected & actual
// disagree. See the package-level Compare for details
func (sd *SmallDiff) Compare(expected, actual interface{}) (DiffMap, error) {
	return compare(&sd.cfg, expected, actual)
}

// IsEqual reports whether expected & actual are equal, printing a report of
// differences to stdout unless a report writer was configured
func (sd *SmallDiff) IsEqual(expected, actual interface{}) (bool, error) {
	cfg := sd.cfg
	if !cfg.reportSet {
		cfg.Report = os.Stdout
	}
	d, err := compare(&cfg, expected, actual)
	if err != nil {
		return false, err
	}
	return d.Empty(), nil
}

func compare(cfg *DiffConfig, expected, actual interface{}) (DiffMap, error) {
	if cfg.Stats != nil {
		*cfg.Stats = Stats{}
	}
	if reflect.DeepEqual(expected, actual) {
		return DiffMap{}, nil
	}

	et, at := reflect.TypeOf(expected), reflect.TypeOf(actual)
	if et != at {
		cfg.Logger.Debug("type mismatch", "expected", typeName(et), "actual", typeName(at))
		return nil, &TypeMismatchError{Expected: et, Actual: at}
	}

	ev, err := Normalize(expected, cfg.Normalizer)
	if err != nil {
		cfg.Logger.Debug("normalizing expected failed", "type", typeName(et), "err", err)
		return nil, fmt.Errorf("normalizing expected: %w", err)
	}
	av, err := Normalize(actual, cfg.Normalizer)
	if err != nil {
		cfg.Logger.Debug("normalizing actual failed", "type", typeName(at), "err", err)
		return nil, fmt.Errorf("normalizing actual: %w", err)
	}

	d := DiffMap{}
	diffValues(d, Root, ev, av)
	cfg.Logger.Debug("compared", "type", typeName(et), "differences", len(d))

	if cfg.Stats != nil {
		cfg.Stats.populate(ev, av, d)
	}
	if cfg.Report != nil && !d.Empty() {
		if err := WriteReport(cfg.Report, d, cfg.ReportFormat, cfg.Color.enabled(cfg.Report)); err != nil {
			cfg.Logger.Warn("writing report failed", "err", err)
		}
	}
	return d, nil
}

// diffValues compares two normalized values at p. Unequal values that aren't
// both mappings or both sequences are recorded at p itself, at the root that
// means a single record keyed by the empty path
func diffValues(d DiffMap, p Path, expected, actual Value) {
	switch {
	case expected.Kind() == KindMapping && actual.Kind() == KindMapping:
		dictDiff(d, p, expected.(*Mapping), actual.(*Mapping))
	case expected.Kind() == KindSequence && actual.Kind() == KindSequence:
		listDiff(d, p, expected.(Sequence), actual.(Sequence))
	case !Equal(expected, actual):
		d.add(p, expected, actual)
	}
}

// dictDiff records disagreements between two mappings. Nested mappings &
// sequences are compared recursively & their records are added to d under
// their full paths. Keys missing from actual record a nil Actual, keys only
// in actual record a nil Expected
func dictDiff(d DiffMap, p Path, expected, actual *Mapping) {
	for _, e := range expected.Entries() {
		kp := p.Key(e.Key)
		av, ok := actual.Get(e.Key)
		switch {
		case !ok:
			d.add(kp, e.Value, nil)
		case e.Value.Kind() == KindMapping && av.Kind() == KindMapping:
			dictDiff(d, kp, e.Value.(*Mapping), av.(*Mapping))
		case e.Value.Kind() == KindSequence && av.Kind() == KindSequence:
			listDiff(d, kp, e.Value.(Sequence), av.(Sequence))
		case !Equal(e.Value, av):
			d.add(kp, e.Value, av)
		}
	}

	for _, e := range actual.Entries() {
		if _, ok := expected.Get(e.Key); !ok {
			d.add(p.Key(e.Key), nil, e.Value)
		}
	}
}

// listDiff compares sequences index by index over their common length, then
// records every trailing element of the longer side against a nil counterpart
func listDiff(d DiffMap, p Path, expected, actual Sequence) {
	common := min(len(expected), len(actual))
	for i := 0; i < common; i++ {
		diffValues(d, p.Index(i), expected[i], actual[i])
	}
	for i := common; i < len(actual); i++ {
		d.add(p.Index(i), nil, actual[i])
	}
	for i := common; i < len(expected); i++ {
		d.add(p.Index(i), expected[i], nil)
	}
}
