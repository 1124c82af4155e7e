package agent

// Decision is the outcome of running one sample through the Filter
type Decision int

const (
	// DecisionEmit means the sample must be written as a STORE line
	DecisionEmit Decision = iota
	// DecisionDuplicate means the sample equals the baseline
	DecisionDuplicate
	// DecisionNoWindow means the probe failed; the baseline was cleared
	DecisionNoWindow
	// DecisionIgnored means the application is in the ignore set
	DecisionIgnored
)

func (d Decision) String() string {
	switch d {
	case DecisionEmit:
		return "emit"
	case DecisionDuplicate:
		return "duplicate"
	case DecisionNoWindow:
		return "no-window"
	case DecisionIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Filter deduplicates samples against the previous outcome and drops ignored
// applications. It is not safe for concurrent use; the agent loop owns it.
type Filter struct {
	baseline *Snapshot
	ignore   map[string]struct{}
}

// NewFilter creates a Filter with an empty baseline
func NewFilter(ignore map[string]struct{}) *Filter {
	if ignore == nil {
		ignore = map[string]struct{}{}
	}
	return &Filter{ignore: ignore}
}

// Apply decides what to do with the outcome of one probe, nil meaning the
// probe failed. Unless the outcome duplicates the baseline, it replaces the
// baseline before the ignore set is consulted, so ignored samples still move
// the dedup reference forward.
func (f *Filter) Apply(s *Snapshot) Decision {
	if s.SameAs(f.baseline) {
		return DecisionDuplicate
	}

	f.baseline = s

	if s == nil {
		return DecisionNoWindow
	}
	if _, ok := f.ignore[s.Name]; ok {
		return DecisionIgnored
	}
	return DecisionEmit
}

// Baseline returns the outcome new samples are compared against
func (f *Filter) Baseline() *Snapshot {
	return f.baseline
}
