package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in           string
		wantClass    Class
		wantLabel    string
		wantSeverity Severity
	}{
		{"ATIVA", Active, "ATIVA", SeverityOK},
		{"Ativa", Active, "ATIVA", SeverityOK},
		{"ATIVA NÃO REGULAR", Active, "ATIVA NAO REGULAR", SeverityOK},
		{"INAPTA", Inapt, "INAPTA", SeverityError},
		{"Inapta por omissão", Inapt, "INAPTA POR OMISSAO", SeverityError},
		{"SUSPENSA", Suspended, "SUSPENSA", SeverityWarning},
		{"BAIXADA", Deregistered, "BAIXADA", SeverityError},
		{"Baixada de ofício", Deregistered, "BAIXADA DE OFICIO", SeverityError},
		{"NULA", Unknown, "NULA", SeverityNeutral},
		{"", Unknown, "N/A", SeverityNeutral},
		{"   ", Unknown, "N/A", SeverityNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.wantClass, got.Class)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantSeverity, got.Severity)
		})
	}
}

// INAPTA must not be caught by the active-like token even though the two
// words share letters; the match is substring containment, not fuzzy.
func TestNormalize_PriorityOrder(t *testing.T) {
	got := Normalize("SITUAÇÃO ATIVA, ANTERIORMENTE SUSPENSA")
	assert.Equal(t, Active, got.Class, "active-like tokens are checked first")
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "inapt", Inapt.String())
	assert.Equal(t, "suspended", Suspended.String())
	assert.Equal(t, "deregistered", Deregistered.String())
	assert.Equal(t, "unknown", Unknown.String())
}
