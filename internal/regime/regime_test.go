package regime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adapta-br/consulta-cnpj/pkg/brasilapi"
)

func yearPtr(y int) *int { return &y }

func at(year int) time.Time {
	return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func records(entries ...brasilapi.RegimeRecord) *brasilapi.Company {
	return &brasilapi.Company{TaxRegimes: entries}
}

func TestResolve_FlagsOverrideRecords(t *testing.T) {
	p := records(brasilapi.RegimeRecord{Year: yearPtr(2020), Form: "Lucro Real"})
	p.MEIOptant = true
	assert.Equal(t, "MEI", Resolve(p, at(2024)))

	p.MEIOptant = false
	p.SimplesOptant = true
	assert.Equal(t, "SIMPLES NACIONAL", Resolve(p, at(2024)))

	// MEI wins over Simples when both are set.
	p.MEIOptant = true
	assert.Equal(t, "MEI", Resolve(p, at(2024)))
}

func TestResolve_TemporalSelection(t *testing.T) {
	p := records(
		brasilapi.RegimeRecord{Year: yearPtr(2020), Form: "A"},
		brasilapi.RegimeRecord{Year: yearPtr(2023), Form: "B"},
		brasilapi.RegimeRecord{Year: yearPtr(2030), Form: "C"},
	)

	// Most recent past-or-present year wins.
	assert.Equal(t, "B", Resolve(p, at(2024)))

	// No candidate at or before now: fall back to the most recent future year.
	assert.Equal(t, "C", Resolve(p, at(2019)))

	// Exact-year match.
	assert.Equal(t, "A", Resolve(p, at(2020)))
}

// Multiple records for the target year resolve to the LAST one in source
// list order. The upstream ordering is load-bearing; do not re-sort.
func TestResolve_TieBreakIsLastInListOrder(t *testing.T) {
	p := records(
		brasilapi.RegimeRecord{Year: yearPtr(2023), Form: "First"},
		brasilapi.RegimeRecord{Year: yearPtr(2022), Form: "Middle"},
		brasilapi.RegimeRecord{Year: yearPtr(2023), Form: "Last"},
	)
	assert.Equal(t, "LAST", Resolve(p, at(2024)))
}

func TestResolve_SelectedRecordWithoutLabel(t *testing.T) {
	p := records(
		brasilapi.RegimeRecord{Year: yearPtr(2021), Form: "A"},
		brasilapi.RegimeRecord{Year: yearPtr(2023), Form: ""},
	)
	assert.Equal(t, Unknown, Resolve(p, at(2024)))
}

func TestResolve_NoValidYears(t *testing.T) {
	p := records(
		brasilapi.RegimeRecord{Form: "Lucro Presumido"},
		brasilapi.RegimeRecord{Form: "Lucro Real"},
	)
	// Without a single valid year, the last record's label is used.
	assert.Equal(t, "LUCRO REAL", Resolve(p, at(2024)))
}

func TestResolve_Empty(t *testing.T) {
	assert.Equal(t, Unknown, Resolve(records(), at(2024)))
	assert.Equal(t, Unknown, Resolve(nil, at(2024)))
}

func TestBadgeClass(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"MEI", "mei"},
		{"SIMPLES NACIONAL", "simples"},
		{"LUCRO REAL", "lucro-real"},
		{"LUCRO PRESUMIDO", "lucro-presumido"},
		{"IMUNE", "other"},
		{"N/A", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BadgeClass(tt.label), tt.label)
	}
}
