package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tenancy-api/pkg/config"
)

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MAIL_DRIVER", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("APP_PUBLIC_URL", "https://app.example.com/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "https://app.example.com", cfg.App.PublicURL, "se recorta la barra final")
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_SecretObligatorioFueraDeDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Env = "production"
	cfg.JWT.Secret = ""
	assert.Error(t, cfg.Validate())

	cfg.App.Env = "development"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DriversDesconocidos(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Mail.Driver = "pigeon"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Mail.Driver = "sendgrid"
	assert.Error(t, cfg.Validate(), "sendgrid sin API key")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "tenancy", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/tenancy?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}

func validConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "development"},
		DB:   config.DBConfig{Driver: "memory"},
		JWT:  config.JWTConfig{Secret: "x", Expiration: 60},
		Mail: config.MailConfig{Driver: "log", QueueSize: 10, MaxAttempts: 3},
	}
}
