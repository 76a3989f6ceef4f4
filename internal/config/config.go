package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config bundles all deployment parameters. It is populated once at startup
// and passed by value into each collaborator; nothing mutates it afterwards.
type Config struct {
	Server    Server
	Database  Database
	Telemetry Telemetry
}

// Server controls the HTTP listener and static data location.
type Server struct {
	Listen       string
	DataDir      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Database holds MySQL connection parameters.
type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// DSN renders the go-sql-driver connection string. parseTime makes the
// driver hand back time.Time for DATE/DATETIME columns instead of raw bytes.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", d.User, d.Password, d.Host, d.Port, d.Name)
}

// Telemetry configures the OTLP error-reporting integration.
type Telemetry struct {
	OTLPEndpoint string
}

// Enabled reports whether an OTLP endpoint was configured. An empty endpoint
// silently disables the integration.
func (t Telemetry) Enabled() bool {
	return t.OTLPEndpoint != ""
}

// fileConfig is the optional YAML overlay for non-secret server tuning.
// Database credentials never live in the file; they come from the
// environment only.
type fileConfig struct {
	Server struct {
		API struct {
			Listen string `yaml:"listen"`
		} `yaml:"api"`
		DataDir      string `yaml:"data_dir"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
		IdleTimeout  string `yaml:"idle_timeout"`
	} `yaml:"server"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// process environment, in that order of precedence (environment wins). It is
// called exactly once at startup; a missing required variable is a fatal
// configuration error and the service must not begin serving.
func Load(path string) (Config, error) {
	cfg := Config{
		Server: Server{
			Listen:       ":8000",
			DataDir:      "data",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: Database{Port: 3306},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return Config{}, fmt.Errorf("unmarshal config: %w", err)
			}
			if fc.Server.API.Listen != "" {
				cfg.Server.Listen = fc.Server.API.Listen
			}
			if fc.Server.DataDir != "" {
				cfg.Server.DataDir = fc.Server.DataDir
			}
			if err := overlayDuration(&cfg.Server.ReadTimeout, "read_timeout", fc.Server.ReadTimeout); err != nil {
				return Config{}, err
			}
			if err := overlayDuration(&cfg.Server.WriteTimeout, "write_timeout", fc.Server.WriteTimeout); err != nil {
				return Config{}, err
			}
			if err := overlayDuration(&cfg.Server.IdleTimeout, "idle_timeout", fc.Server.IdleTimeout); err != nil {
				return Config{}, err
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Listen = ":" + v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Server.DataDir = v
	}

	cfg.Database.Host = os.Getenv("MYSQL_HOST")
	cfg.Database.User = os.Getenv("MYSQL_USER")
	cfg.Database.Password = os.Getenv("MYSQL_ROOT_PASSWORD")
	cfg.Database.Name = os.Getenv("MYSQL_DATABASE")
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MYSQL_PORT: %w", err)
		}
		cfg.Database.Port = port
	}

	cfg.Telemetry.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	if missing := missingVars(cfg.Database); len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func overlayDuration(dst *time.Duration, name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("server.%s: %w", name, err)
	}
	*dst = d
	return nil
}

func missingVars(db Database) []string {
	var missing []string
	if db.Host == "" {
		missing = append(missing, "MYSQL_HOST")
	}
	if db.User == "" {
		missing = append(missing, "MYSQL_USER")
	}
	if db.Password == "" {
		missing = append(missing, "MYSQL_ROOT_PASSWORD")
	}
	if db.Name == "" {
		missing = append(missing, "MYSQL_DATABASE")
	}
	return missing
}
