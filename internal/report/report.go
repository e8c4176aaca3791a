// Package report renders a resolved lookup as a terminal-friendly text
// report, mirroring the section layout of the consulta web page. Display
// conventions live here: absent fields show as "N/A", currency is BRL,
// phones carry their area code.
package report

import (
	"fmt"
	"strings"

	"github.com/adapta-br/consulta-cnpj/internal/cnpj"
	"github.com/adapta-br/consulta-cnpj/internal/lookup"
)

// Render builds the full text report.
func Render(res *lookup.Result) string {
	p := res.Profile
	var b strings.Builder

	section(&b, "Dados da Empresa")
	line(&b, "Razão Social", orNA(p.LegalName))
	line(&b, "Nome Fantasia", orNA(p.TradeName))
	line(&b, "CNPJ", cnpj.FormatMask(p.CNPJ))
	line(&b, "Situação Cadastral", res.Status.Label)
	line(&b, "Data Início Atividade", orNA(p.FoundedOn))
	line(&b, "CNAE Fiscal", fmt.Sprintf("%s (%d)", orNA(p.MainActivityDesc), p.MainActivityCode))
	line(&b, "Porte", orNA(p.SizeCategory))
	line(&b, "Natureza Jurídica", orNA(p.LegalNature))
	line(&b, "Capital Social", CurrencyBRL(p.ShareCapital))
	line(&b, "Telefone", Phone(p.AreaCode1, p.Phone1))
	if tel2 := Phone(p.AreaCode2, p.Phone2); tel2 != "N/A" {
		line(&b, "Telefone 2", tel2)
	}
	line(&b, "Email", orNA(p.Email))

	section(&b, "Regime Tributário")
	line(&b, "Regime", res.Regime)
	if res.RegimeSource != res.Identifier {
		line(&b, "Fonte", "matriz "+cnpj.FormatMask(res.RegimeSource))
	}

	section(&b, "Endereço")
	street := strings.TrimSpace(p.StreetType + " " + p.Street)
	line(&b, "Logradouro", fmt.Sprintf("%s, %s", orNA(street), orNA(p.Number)))
	if p.Complement != "" {
		line(&b, "Complemento", p.Complement)
	}
	line(&b, "Bairro", orNA(p.District))
	line(&b, "Município", orNA(p.Municipality))
	line(&b, "UF", orNA(p.State))
	line(&b, "CEP", orNA(p.PostalCode))

	section(&b, "Quadro de Sócios e Administradores (QSA)")
	if len(p.Partners) == 0 {
		b.WriteString("  Não há informações de QSA disponíveis.\n")
	}
	for i, s := range p.Partners {
		fmt.Fprintf(&b, "  %d. %s — %s (entrada %s)\n",
			i+1, orNA(s.Name), orNA(s.Qualification), orNA(s.JoinedOn))
		if s.LegalRepName != "" {
			fmt.Fprintf(&b, "     Representante legal: %s (%s)\n",
				s.LegalRepName, orNA(s.LegalRepQualification))
		}
	}

	section(&b, "CNAEs Secundários")
	if len(p.SecondaryActivities) == 0 {
		b.WriteString("  Não há CNAEs secundários informados.\n")
	}
	for _, a := range p.SecondaryActivities {
		fmt.Fprintf(&b, "  - %d: %s\n", a.Code, orNA(a.Description))
	}

	section(&b, "Inscrições Estaduais")
	switch {
	case res.RegistrationsUnavailable:
		b.WriteString("  Não foi possível recuperar as Inscrições Estaduais no momento.\n")
	case len(res.Registrations) == 0:
		b.WriteString("  Nenhuma Inscrição Estadual encontrada para este CNPJ.\n")
	default:
		for i, ie := range res.Registrations {
			enabled := "Não"
			if ie.Enabled {
				enabled = "Sim"
			}
			fmt.Fprintf(&b, "  %d. UF %s — nº %s — habilitada: %s — %s (%s)\n",
				i+1, orNA(ie.State), orNA(ie.Number), enabled,
				orNA(ie.StatusText), orNA(ie.TypeText))
		}
	}

	return b.String()
}

// CurrencyBRL formats a decimal value as Brazilian currency
// (R$ 1.234.567,89). Zero or negative values render as "N/A".
func CurrencyBRL(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}
	return "R$ " + grouped.String() + "," + fracPart
}

// Phone renders "(DD) NNNNNNNN", or "N/A" when either part is missing.
func Phone(area, number string) string {
	if area == "" || number == "" {
		return "N/A"
	}
	return fmt.Sprintf("(%s) %s", area, number)
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("## " + title + "\n")
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-22s %s\n", label+":", value)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
