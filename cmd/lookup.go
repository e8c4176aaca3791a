package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adapta-br/consulta-cnpj/internal/cnpj"
	"github.com/adapta-br/consulta-cnpj/internal/export"
	"github.com/adapta-br/consulta-cnpj/internal/history"
	"github.com/adapta-br/consulta-cnpj/internal/lookup"
	"github.com/adapta-br/consulta-cnpj/internal/report"
	"github.com/adapta-br/consulta-cnpj/pkg/provider"
)

var (
	exportPath   string
	exportFormat string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <cnpj>",
	Short: "Resolve a CNPJ into a consolidated profile",
	Long:  "Accepts the identifier with or without punctuation (21.746.980/0001-46 or 21746980000146).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := newService()

		res, err := svc.Lookup(ctx, args[0])
		if err != nil {
			return userError(err)
		}

		fmt.Printf("Dados encontrados para o CNPJ %s\n\n", cnpj.FormatMask(res.Identifier))
		fmt.Print(report.Render(res))

		if exportPath != "" {
			dest, err := writeExport(res, exportPath, exportFormat)
			if err != nil {
				return err
			}
			fmt.Printf("\nExportado para %s\n", dest)
		}

		if cfg.History.Enabled {
			recordHistory(res)
		}

		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&exportPath, "export", "", "write the resolved profile to this file")
	lookupCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format: csv or xlsx")
	rootCmd.AddCommand(lookupCmd)
}

// userError maps the error taxonomy to the three user-facing messages.
// Invalid input, not-found and unavailable are deliberately distinct.
func userError(err error) error {
	switch {
	case eris.Is(err, lookup.ErrInvalidInput):
		return fmt.Errorf("CNPJ inválido. Um CNPJ deve conter exatamente 14 dígitos numéricos")
	case eris.Is(err, provider.ErrNotFound):
		return fmt.Errorf("CNPJ inválido ou não encontrado. Verifique os dígitos e tente novamente")
	case eris.Is(err, provider.ErrUnavailable):
		return fmt.Errorf("serviço temporariamente indisponível. Tente novamente em alguns instantes")
	default:
		return err
	}
}

// writeExport writes the record to path and returns the file actually
// written. A directory path gets a generated consulta_<cnpj>_<ts> name.
func writeExport(res *lookup.Result, path, format string) (string, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "xlsx" {
		return "", eris.Errorf("unknown export format %q (want csv or xlsx)", format)
	}

	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		name := fmt.Sprintf("consulta_%s_%s.%s", res.Identifier, export.Timestamp(res.QueriedAt), format)
		path = filepath.Join(path, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	rec := export.Build(res)
	if format == "xlsx" {
		return path, export.WriteXLSX(f, rec)
	}
	return path, export.WriteCSV(f, rec)
}

// recordHistory persists the lookup locally. History failures are logged,
// never surfaced: the lookup already succeeded.
func recordHistory(res *lookup.Result) {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		zap.L().Warn("history unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		zap.L().Warn("history migrate failed", zap.Error(err))
		return
	}
	if _, err := store.Record(ctx, res); err != nil {
		zap.L().Warn("history record failed", zap.Error(err))
	}
}
