package extract

// Status classifies the outcome of extracting one SQL text.
type Status int

const (
	// StatusSuccess means a structural parse produced references.
	StatusSuccess Status = iota

	// StatusPartial means only the fallback tokenizer produced
	// references.
	StatusPartial

	// StatusParseError means no dialect parsed the text and the
	// fallback found nothing.
	StatusParseError

	// StatusZeroColumns means the text parsed but contained no column
	// references.
	StatusZeroColumns
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusPartial:
		return "PARTIAL_OK"
	case StatusParseError:
		return "PARSE_ERROR"
	case StatusZeroColumns:
		return "ZERO_COLUMNS"
	default:
		return "UNKNOWN"
	}
}

// Attempt records one dialect trial.
type Attempt struct {
	Dialect string
	Err     error // nil when the dialect parsed the text
}

// Result is the outcome of extracting one SQL text.
type Result struct {
	// Refs holds one entry per reference occurrence, in source order.
	// Deduplication is the caller's policy, not the extractor's.
	Refs []string

	Status Status

	// Dialect is the dialect that produced Refs on success, empty
	// otherwise.
	Dialect string

	// Attempts lists every dialect tried, with parse errors attached.
	Attempts []Attempt
}

// Err returns the first parse error recorded across attempts, or nil.
func (r Result) Err() error {
	for _, a := range r.Attempts {
		if a.Err != nil {
			return a.Err
		}
	}
	return nil
}
