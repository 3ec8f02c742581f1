package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
	Mail MailConfig
	Seed SeedConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	PublicURL string // URL del frontend; los correos enlazan a PublicURL + "/login"
	LogLevel  string
}

// IsDevelopment true en el entorno local.
func (c AppConfig) IsDevelopment() bool { return c.Env == "development" }

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int

	// ConnectAttempts intentos de ping al arrancar.
	ConnectAttempts int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailConfig configuración del envío de correos.
type MailConfig struct {
	Driver         string // smtp | sendgrid | log
	From           string
	FromName       string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SendGridAPIKey string
	QueueSize      int
	MaxAttempts    int
}

// SeedConfig credenciales del super admin inicial (tenantctl seed superadmin).
type SeedConfig struct {
	SuperAdminEmail    string
	SuperAdminPassword string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "tenancy-api"),
			PublicURL: strings.TrimRight(getString(v, "APP_PUBLIC_URL", "http://localhost:3000"), "/"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "tenancy"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),

			ConnectAttempts: getInt(v, "DB_CONNECT_ATTEMPTS", 5),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "tenancy-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Mail: MailConfig{
			Driver:         getString(v, "MAIL_DRIVER", "log"),
			From:           getString(v, "MAIL_FROM", "no-reply@localhost"),
			FromName:       getString(v, "MAIL_FROM_NAME", "Tenancy"),
			SMTPHost:       getString(v, "SMTP_HOST", "localhost"),
			SMTPPort:       getInt(v, "SMTP_PORT", 587),
			SMTPUser:       getString(v, "SMTP_USER", ""),
			SMTPPassword:   getString(v, "SMTP_PASSWORD", ""),
			SendGridAPIKey: getString(v, "SENDGRID_API_KEY", ""),
			QueueSize:      getInt(v, "MAIL_QUEUE_SIZE", 100),
			MaxAttempts:    getInt(v, "MAIL_MAX_ATTEMPTS", 3),
		},
		Seed: SeedConfig{
			SuperAdminEmail:    getString(v, "SUPERADMIN_EMAIL", ""),
			SuperAdminPassword: getString(v, "SUPERADMIN_PASSWORD", ""),
		},
	}

	return cfg, nil
}

// Validate revisa combinaciones que impedirían arrancar.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" && !c.App.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET es obligatorio fuera de development"))
	}
	switch c.DB.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q no soportado (postgres|memory)", c.DB.Driver))
	}
	switch c.Mail.Driver {
	case "log":
	case "smtp":
		if c.Mail.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST es obligatorio con MAIL_DRIVER=smtp"))
		}
	case "sendgrid":
		if c.Mail.SendGridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY es obligatorio con MAIL_DRIVER=sendgrid"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_DRIVER %q no soportado (smtp|sendgrid|log)", c.Mail.Driver))
	}
	if c.Mail.QueueSize <= 0 {
		errs = append(errs, errors.New("MAIL_QUEUE_SIZE debe ser mayor que 0"))
	}
	if c.Mail.MaxAttempts <= 0 {
		errs = append(errs, errors.New("MAIL_MAX_ATTEMPTS debe ser mayor que 0"))
	}
	return errors.Join(errs...)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
