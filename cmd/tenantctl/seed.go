package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Tenancy-api/internal/application/auth"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tenancy-api/pkg/password"
)

func seedCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga datos iniciales",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var email, pass string
	superAdmin := &cobra.Command{
		Use:   "superadmin",
		Short: "Crea el super admin inicial (idempotente)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = opts.cfg.Seed.SuperAdminEmail
			}
			if pass == "" {
				pass = opts.cfg.Seed.SuperAdminPassword
			}
			if email == "" {
				return errors.New("indique --email o SUPERADMIN_EMAIL")
			}

			ctx := cmd.Context()
			dbCfg := opts.cfg.DB
			dbCfg.DatabaseURL = opts.databaseURL
			pool, err := postgres.NewPool(ctx, dbCfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			store, err := postgres.NewStore(pool)
			if err != nil {
				return err
			}

			uc := auth.NewAuthUseCase(store, password.NewBcryptHasher(), nopNotifier{}, nil, auth.JWTConfig{}, opts.log.Zerolog())
			user, created, err := uc.SeedSuperAdmin(ctx, email, pass)
			if err != nil {
				return err
			}
			if created {
				opts.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("super admin creado")
			} else {
				opts.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("el super admin ya existía")
			}
			return nil
		},
	}
	superAdmin.Flags().StringVar(&email, "email", "", "Email del super admin (por defecto SUPERADMIN_EMAIL)")
	superAdmin.Flags().StringVar(&pass, "password", "", "Contraseña (por defecto SUPERADMIN_PASSWORD)")
	cmd.AddCommand(superAdmin)
	return cmd
}

// nopNotifier el seed no envía correos.
type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ports.Notification) error { return nil }
