package domain

// FindingSeverity indicates how severe a finding is.
type FindingSeverity string

const (
	// SeverityError indicates a barcode that breaks a library constraint.
	SeverityError FindingSeverity = "error"
	// SeverityWarning indicates a barcode that should be reviewed.
	SeverityWarning FindingSeverity = "warning"
)

// Finding type constants identify the constraint a barcode breaks.
const (
	FindingLength          = "length"
	FindingInvalidSymbol   = "invalid_symbol"
	FindingHomopolymer     = "homopolymer"
	FindingDimerRepeat     = "dimer_repeat"
	FindingGCContent       = "gc_content"
	FindingHammingDistance = "hamming_distance"
	FindingLabel           = "label"
)

// Finding represents one issue discovered while verifying a barcode set.
// Label names the offending barcode.
type Finding struct {
	Type     string          `json:"type"`
	Severity FindingSeverity `json:"severity"`
	Message  string          `json:"message"`
	Label    string          `json:"label"`
}
