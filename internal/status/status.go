// Package status normalizes the free-text cadastral-status vocabulary used
// by the registry into a fixed classification.
package status

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Class is the fixed cadastral-status classification.
type Class int

const (
	Unknown Class = iota
	Active
	Inapt
	Suspended
	Deregistered
)

func (c Class) String() string {
	switch c {
	case Active:
		return "active"
	case Inapt:
		return "inapt"
	case Suspended:
		return "suspended"
	case Deregistered:
		return "deregistered"
	default:
		return "unknown"
	}
}

// Severity is a presentation hint attached to each class.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityNeutral Severity = "neutral"
)

// Status is a normalized cadastral status: the classification plus a display
// label derived from the source text.
type Status struct {
	Class    Class
	Label    string
	Severity Severity
}

// token pairs a match substring with its classification. Order matters:
// active-like tokens are checked before inapt, then suspended, then
// deregistered, and the first containment wins.
var tokens = []struct {
	substr string
	class  Class
}{
	{"ATIVA", Active},
	{"INAPTA", Inapt},
	{"SUSPENSA", Suspended},
	{"BAIXADA", Deregistered},
}

// Normalize maps a free-text cadastral status to its classification.
// Matching is case- and accent-insensitive substring containment. Unmatched
// non-empty input keeps its upper-cased text with an Unknown class; empty
// input yields the "N/A" display placeholder.
func Normalize(text string) Status {
	folded := fold(text)
	if folded == "" {
		return Status{Class: Unknown, Label: "N/A", Severity: SeverityNeutral}
	}

	for _, t := range tokens {
		if strings.Contains(folded, t.substr) {
			return Status{Class: t.class, Label: folded, Severity: severityOf(t.class)}
		}
	}
	return Status{Class: Unknown, Label: folded, Severity: SeverityNeutral}
}

func severityOf(c Class) Severity {
	switch c {
	case Active:
		return SeverityOK
	case Suspended:
		return SeverityWarning
	case Inapt, Deregistered:
		return SeverityError
	default:
		return SeverityNeutral
	}
}

// fold upper-cases and strips combining marks so that "Ativa" and "ATIVA"
// (or "INAPTA" spelled with diacritics) compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}
