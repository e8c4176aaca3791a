package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adapta-br/consulta-cnpj/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "consulta-cnpj",
	Short: "Consolidated CNPJ lookups against public registries",
	Long:  "Resolves a Brazilian company identifier against BrasilAPI and CNPJá, consolidating identity, address, ownership, tax regime and per-state registrations into one profile.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
