package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adapta-br/consulta-cnpj/internal/lookup"
	"github.com/adapta-br/consulta-cnpj/internal/status"
	"github.com/adapta-br/consulta-cnpj/pkg/brasilapi"
	"github.com/adapta-br/consulta-cnpj/pkg/cnpja"
)

func TestCurrencyBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234567.89, "R$ 1.234.567,89"},
		{100000.5, "R$ 100.000,50"},
		{1000, "R$ 1.000,00"},
		{999.99, "R$ 999,99"},
		{1, "R$ 1,00"},
		{0, "N/A"},
		{-5, "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CurrencyBRL(tt.in))
	}
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "(11) 33334444", Phone("11", "33334444"))
	assert.Equal(t, "N/A", Phone("", "33334444"))
	assert.Equal(t, "N/A", Phone("11", ""))
	assert.Equal(t, "N/A", Phone("", ""))
}

func TestRender(t *testing.T) {
	res := &lookup.Result{
		Identifier: "21746980000146",
		Profile: &brasilapi.Company{
			CNPJ:         "21746980000146",
			LegalName:    "ADAPTA CONSULTORIA LTDA",
			ShareCapital: 100000.5,
			Partners:     []brasilapi.Partner{{Name: "MARIA SILVA", Qualification: "Sócio-Administrador"}},
		},
		Status:       status.Normalize("ATIVA"),
		Regime:       "SIMPLES NACIONAL",
		RegimeSource: "21746980000146",
		Registrations: []cnpja.Registration{
			{State: "SP", Number: "123456789", Enabled: true, StatusText: "Habilitada", TypeText: "IE Normal"},
		},
		QueriedAt: time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC),
	}

	out := Render(res)
	assert.Contains(t, out, "Dados da Empresa")
	assert.Contains(t, out, "ADAPTA CONSULTORIA LTDA")
	assert.Contains(t, out, "21.746.980/0001-46")
	assert.Contains(t, out, "R$ 100.000,50")
	assert.Contains(t, out, "SIMPLES NACIONAL")
	assert.Contains(t, out, "MARIA SILVA")
	assert.Contains(t, out, "Inscrições Estaduais")
	assert.Contains(t, out, "123456789")
	// Missing fields fall back to the display placeholder.
	assert.Contains(t, out, "N/A")
}

func TestRender_BranchRegimeSource(t *testing.T) {
	res := &lookup.Result{
		Identifier:   "21746980000227",
		Profile:      &brasilapi.Company{CNPJ: "21746980000227"},
		Status:       status.Normalize(""),
		Regime:       "LUCRO REAL",
		RegimeSource: "21746980000146",
		QueriedAt:    time.Now(),
	}

	out := Render(res)
	assert.Contains(t, out, "matriz 21.746.980/0001-46")
}

func TestRender_RegistrationsUnavailable(t *testing.T) {
	res := &lookup.Result{
		Identifier:               "21746980000146",
		Profile:                  &brasilapi.Company{CNPJ: "21746980000146"},
		Status:                   status.Normalize(""),
		Regime:                   "N/A",
		RegimeSource:             "21746980000146",
		RegistrationsUnavailable: true,
		QueriedAt:                time.Now(),
	}

	out := Render(res)
	assert.Contains(t, out, "Não foi possível recuperar as Inscrições Estaduais")
}
