package main

import (
	"fmt"
	"strconv"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Tenancy-api/internal/infrastructure/postgres"
)

func migrateCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de base de datos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up [count]",
		Short: "Aplica [count] migraciones pendientes (todas si se omite)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var count int
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("count inválido: %s", args[0])
				}
				count = n
			}
			return runMigration(opts, migrate.Up, count)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down <count>",
		Short: "Revierte <count> migraciones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil || count <= 0 {
				return fmt.Errorf("count inválido: %s", args[0])
			}
			return runMigration(opts, migrate.Down, count)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Muestra las migraciones aplicadas y pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := postgres.Status(opts.databaseURL)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range list {
				state := "pendiente"
				if m.Applied {
					state = "aplicada"
				}
				fmt.Fprintf(out, "%-45s %s\n", m.ID, state)
			}
			return nil
		},
	})
	return cmd
}

func runMigration(opts *globalOptions, dir migrate.MigrationDirection, count int) error {
	n, err := postgres.Migrate(opts.databaseURL, dir, count)
	if err != nil {
		return fmt.Errorf("ejecutar migraciones: %w", err)
	}
	if n == 0 {
		opts.log.Info().Msg("no hay migraciones por aplicar")
		return nil
	}
	opts.log.Info().Int("count", n).Msg("migraciones aplicadas")
	return nil
}
