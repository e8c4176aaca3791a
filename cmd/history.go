package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adapta-br/consulta-cnpj/internal/cnpj"
	"github.com/adapta-br/consulta-cnpj/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		entries, err := store.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No lookups recorded yet.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %-20s %-40s %-10s %s\n",
				e.QueriedAt.Local().Format("2006-01-02 15:04"),
				cnpj.FormatMask(e.CNPJ),
				truncate(e.LegalName, 40),
				e.Status,
				e.Regime,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to list")
	rootCmd.AddCommand(historyCmd)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
