// Package regime resolves the single applicable tax-regime label for a
// company profile from its enrollment flags and historical filings.
package regime

import (
	"strings"
	"time"

	"github.com/adapta-br/consulta-cnpj/pkg/brasilapi"
)

// Unknown is the label used when no regime information exists.
const Unknown = "N/A"

// Resolve determines the regime label for a profile at the given instant.
//
// The enrollment flags take precedence over historical filings because they
// represent current status: MEI first, then Simples Nacional. Otherwise the
// label comes from the filing whose year is the most recent past-or-present
// year; if every recorded year is in the future, the most recent future year
// is used instead. Ties on the target year resolve to the LAST matching
// record in source list order — the upstream ordering is load-bearing here
// and must not be re-sorted.
func Resolve(p *brasilapi.Company, now time.Time) string {
	if p == nil {
		return Unknown
	}
	if p.MEIOptant {
		return "MEI"
	}
	if p.SimplesOptant {
		return "SIMPLES NACIONAL"
	}

	records := p.TaxRegimes
	if len(records) == 0 {
		return Unknown
	}

	var years []int
	for _, r := range records {
		if r.Year != nil {
			years = append(years, *r.Year)
		}
	}
	if len(years) == 0 {
		return label(records[len(records)-1])
	}

	target := targetYear(years, now.Year())
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Year != nil && *records[i].Year == target {
			return label(records[i])
		}
	}
	return label(records[len(records)-1])
}

// targetYear picks the most recent year not after current, falling back to
// the most recent year overall when every candidate is in the future.
func targetYear(years []int, current int) int {
	best, bestAny := 0, 0
	hasCandidate := false
	for i, y := range years {
		if i == 0 || y > bestAny {
			bestAny = y
		}
		if y <= current && (!hasCandidate || y > best) {
			best = y
			hasCandidate = true
		}
	}
	if hasCandidate {
		return best
	}
	return bestAny
}

func label(r brasilapi.RegimeRecord) string {
	if r.Form == "" {
		return Unknown
	}
	return strings.ToUpper(r.Form)
}

// BadgeClass buckets a resolved label for presentation. It is display-only;
// consumers map the bucket to their own styling.
func BadgeClass(regimeLabel string) string {
	r := strings.ToUpper(regimeLabel)
	switch {
	case strings.Contains(r, "MEI"):
		return "mei"
	case strings.Contains(r, "SIMPLES"):
		return "simples"
	case strings.Contains(r, "LUCRO REAL"):
		return "lucro-real"
	case strings.Contains(r, "LUCRO PRESUMIDO"):
		return "lucro-presumido"
	default:
		return "other"
	}
}
