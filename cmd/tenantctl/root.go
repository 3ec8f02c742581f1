package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Tenancy-api/pkg/config"
	"github.com/jhoicas/Tenancy-api/pkg/logger"
)

type globalOptions struct {
	databaseURL string
	cfg         *config.Config
	log         *logger.Logger
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "tenantctl",
		Short:         "Herramientas de operación de Tenancy API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = logger.New(logger.Config{
				Env:     cfg.App.Env,
				Level:   cfg.App.LogLevel,
				Service: "tenantctl",
			})
			if opts.databaseURL == "" {
				opts.databaseURL = cfg.DB.ConnectionString()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "URL de PostgreSQL (por defecto DATABASE_URL o DB_*)")

	cmd.AddCommand(migrateCmd(opts))
	cmd.AddCommand(seedCmd(opts))
	return cmd
}
