package models

import "strings"

// models.go holds the per-service board row and the classification rules
// applied to every service pulled off the Darwin feed. A ServiceRecord is one
// line of the board; a NoticeMessage is one NRCC disruption notice destined
// for the ticker. Both lists are rebuilt wholesale on every successful fetch.

// ServiceRecord is one row of the departure/arrival board.
type ServiceRecord struct {
	Scheduled   string `json:"scheduled"`   // HH:MM or empty
	Destination string `json:"destination"` // destination (departures) or origin (arrivals)
	Estimate    string `json:"estimate"`    // "On time", "Cancelled", "Delayed" or HH:MM
	Platform    string `json:"platform"`    // empty for bus services
	Operator    string `json:"operator"`    // short display alias
	Bus         bool   `json:"bus"`
}

// Keep decides whether a parsed record earns a board slot. Rows with neither
// a time nor a place are noise from partial elements.
func (s ServiceRecord) Keep() bool {
	return s.Scheduled != "" || s.Destination != ""
}

// NoticeMessage is a cleaned NRCC notice ready for the ticker pipeline.
type NoticeMessage string

// Status classifies an estimate string for colour-coding by the renderer.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusAlert
)

// ClassifyEstimate maps an estimate string onto a display status. Cancelled
// and delayed services alert; a revised time (anything with a colon) or a
// "late" wording warns.
func ClassifyEstimate(est string) Status {
	low := strings.ToLower(est)
	switch {
	case strings.Contains(low, "cancel") || strings.Contains(low, "delay"):
		return StatusAlert
	case strings.Contains(low, "late") || strings.Contains(low, ":"):
		return StatusWarn
	default:
		return StatusOK
	}
}

// operatorAliases maps long-form operator names onto the short aliases the
// board has room for. Unmapped operators pass through trimmed.
var operatorAliases = map[string]string{
	"London North Eastern Railway": "LNER",
	"London Northwestern Railway":  "London Northwestern",
	"Great Western Railway":        "Great Western",
	"West Midlands Trains":         "West Midlands",
	"South Western Railway":        "South Western",
	"East Midlands Railway":        "East Midlands",
}

// NormalizeOperator shortens known operator names for display.
func NormalizeOperator(op string) string {
	op = strings.TrimSpace(op)
	if alias, ok := operatorAliases[op]; ok {
		return alias
	}
	return op
}

// BusSignals carries the raw feed fields consulted by bus detection.
type BusSignals struct {
	ServiceType string
	IsBusFlag   string
	Category    string
	Platform    string
	Operator    string
}

// IsBus reports whether any of the feed's bus indicators fire. Replacement
// buses show up inconsistently across Darwin fields, so every known signal
// is checked.
func (b BusSignals) IsBus() bool {
	stype := strings.ToLower(b.ServiceType)
	isBus := strings.ToLower(b.IsBusFlag)
	cat := strings.ToLower(b.Category)
	plat := strings.TrimSpace(strings.ToLower(b.Platform))
	oper := strings.TrimSpace(strings.ToLower(b.Operator))

	switch {
	case strings.Contains(stype, "bus"):
		return true
	case isBus == "true" || isBus == "1":
		return true
	case strings.Contains(cat, "bus"):
		return true
	case plat == "bus" || plat == "coach":
		return true
	case strings.Contains(oper, "replacement"),
		strings.Contains(oper, "bus"),
		strings.Contains(oper, "coach"):
		return true
	}
	return false
}

// Classify applies bus detection and clears the platform for bus services.
func (s *ServiceRecord) Classify(sig BusSignals) {
	s.Bus = sig.IsBus()
	if s.Bus {
		s.Platform = ""
	}
}

// entityReplacer decodes the fixed entity subset seen in Darwin payloads.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// DecodeEntities decodes the fixed set of HTML entities the feed emits.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// StripTags removes any <...> spans left after entity decoding. An unclosed
// '<' swallows the rest of the string, matching how notices are cut for
// display rather than preserved.
func StripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:lt])
		gt := strings.IndexByte(s[lt+1:], '>')
		if gt < 0 {
			break
		}
		s = s[lt+1+gt+1:]
	}
	return b.String()
}

// CollapseSpaces squeezes runs of spaces down to one.
func CollapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// FirstSentence truncates to the first sentence terminator, keeping it.
func FirstSentence(s string) string {
	if idx := strings.IndexAny(s, ".!?"); idx >= 0 {
		return strings.TrimSpace(s[:idx+1])
	}
	return s
}

// CleanNotice runs the full NRCC notice pipeline: entity decode, tag strip,
// whitespace collapse, trim, first-sentence truncation.
func CleanNotice(raw string) NoticeMessage {
	s := DecodeEntities(raw)
	s = StripTags(s)
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	s = CollapseSpaces(s)
	s = strings.TrimSpace(s)
	s = FirstSentence(s)
	return NoticeMessage(s)
}
