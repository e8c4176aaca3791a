// Package export serializes a resolved lookup into a flat record with a
// stable column contract.
//
// Export values follow machine conventions, not display conventions: a
// missing source field becomes an empty string, never an "N/A" placeholder.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/adapta-br/consulta-cnpj/internal/lookup"
	"github.com/adapta-br/consulta-cnpj/internal/regime"
	"github.com/adapta-br/consulta-cnpj/pkg/cnpja"
)

// Columns is the fixed, ordered export header. Downstream parsers rely on
// this exact order.
var Columns = []string{
	"CNPJ",
	"Razão Social",
	"Nome Fantasia",
	"Data Início Atividade",
	"Situação Cadastral",
	"Regime Tributário",
	"CNAE Fiscal",
	"CNAE Descrição",
	"Natureza Jurídica",
	"Porte",
	"Capital Social",
	"Telefone 1",
	"Telefone 2",
	"Email",
	"Logradouro",
	"Número",
	"Complemento",
	"Bairro",
	"Município",
	"UF",
	"CEP",
	"Inscrições Estaduais",
	"Data Consulta",
}

// Registration flattening delimiters: "|" between the fields of one entry,
// "; " between entries.
const (
	fieldSep = "|"
	entrySep = "; "
)

// utf8BOM makes the CSV open cleanly in spreadsheet software.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Record is one immutable export row.
type Record struct {
	values []string
}

// Values returns the row in column order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Build assembles the export record for a resolved query. It never fails:
// anything missing degrades to an empty value.
func Build(res *lookup.Result) Record {
	p := res.Profile

	return Record{values: []string{
		p.CNPJ,
		p.LegalName,
		p.TradeName,
		p.FoundedOn,
		statusValue(res),
		regimeValue(res.Regime),
		intValue(p.MainActivityCode),
		p.MainActivityDesc,
		p.LegalNature,
		p.SizeCategory,
		capitalValue(p.ShareCapital),
		phoneValue(p.AreaCode1, p.Phone1),
		phoneValue(p.AreaCode2, p.Phone2),
		p.Email,
		strings.TrimSpace(p.StreetType + " " + p.Street),
		p.Number,
		p.Complement,
		p.District,
		p.Municipality,
		p.State,
		p.PostalCode,
		flattenRegistrations(res.Registrations),
		res.QueriedAt.Format("2006-01-02 15:04:05"),
	}}
}

// WriteCSV writes the UTF-8 BOM, the header row and exactly one data row.
func WriteCSV(w io.Writer, rec Record) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return eris.Wrap(err, "export: write bom")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	if err := cw.Write(rec.values); err != nil {
		return eris.Wrap(err, "export: write row")
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// WriteXLSX writes the record as a single-sheet spreadsheet.
func WriteXLSX(w io.Writer, rec Record) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Consulta")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}
	row := sheet.AddRow()
	for _, v := range rec.values {
		row.AddCell().SetString(v)
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}

// statusValue keeps the normalized label but only when the source carried a
// status at all; the "N/A" placeholder is a display convention, not an
// export one.
func statusValue(res *lookup.Result) string {
	if res.Profile.RegistryStatus == "" {
		return ""
	}
	return res.Status.Label
}

func regimeValue(label string) string {
	if label == regime.Unknown {
		return ""
	}
	return label
}

func intValue(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func capitalValue(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func phoneValue(area, number string) string {
	if area == "" || number == "" {
		return ""
	}
	return fmt.Sprintf("(%s) %s", area, number)
}

// flattenRegistrations joins every entry into one delimited segment. An
// empty (or unavailable) list is an empty string, never an error.
func flattenRegistrations(regs []cnpja.Registration) string {
	if len(regs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(regs))
	for _, r := range regs {
		enabled := "Não"
		if r.Enabled {
			enabled = "Sim"
		}
		parts = append(parts, strings.Join([]string{
			r.State, r.Number, enabled, r.StatusText, r.TypeText,
		}, fieldSep))
	}
	return strings.Join(parts, entrySep)
}

// Timestamp formats a query timestamp the way the export does; exposed for
// consumers that render the export filename.
func Timestamp(t time.Time) string {
	return t.Format("20060102-150405")
}
