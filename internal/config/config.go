package config

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	AuthModeHeader = "header"
	AuthModeJWT    = "jwt"
	AuthModeSSO    = "sso"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-required:"true"`
	Database   `yaml:"database"`
	HTTPServer `yaml:"http_server"`
	Auth       Auth          `yaml:"auth"`
	Clients    ClientsConfig `yaml:"clients"`
	Events     Events        `yaml:"events"`
	Catalog    Catalog       `yaml:"catalog"`
}

type Database struct {
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	Host       string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port       int    `yaml:"port" env:"PORT" env-default:"3306"`
	UsernameDB string `yaml:"username-db" env:"USERNAMEDB"`
	Password   string `yaml:"password" env:"PASSWORD"`
	DBName     string `yaml:"dbname" env:"DBNAME" env-default:"levelup"`
	Path       string `yaml:"path" env:"DB_PATH" env-default:"levelup.db"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	Cors        []string      `yaml:"cors" env-default:"http://localhost:3000"`
}

type Auth struct {
	Mode     string        `yaml:"mode" env:"AUTH_MODE" env-default:"header"`
	Secret   string        `yaml:"secret" env:"APP_SECRET"`
	Issuer   string        `yaml:"issuer" env-default:"levelup"`
	TokenTTL time.Duration `yaml:"token_ttl" env-default:"24h"`
}

type Client struct {
	Address      string        `yaml:"address"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type ClientsConfig struct {
	SSO Client `yaml:"sso"`
}

type Events struct {
	EnforceOwnership bool `yaml:"enforce_ownership" env:"EVENTS_ENFORCE_OWNERSHIP" env-default:"false"`
}

type Catalog struct {
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	AllowedHosts []string      `yaml:"allowed_hosts" env-default:"store.steampowered.com"`
}

func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}
	if *configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

// Load reads the yaml file at path, applies env overrides and validates the
// combination of settings.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %s - %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %s - %w", path, err)
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	switch cfg.Auth.Mode {
	case AuthModeHeader:
	case AuthModeJWT:
		if len(cfg.Auth.Secret) < 16 {
			return fmt.Errorf("auth secret must be at least 16 characters in %s mode", AuthModeJWT)
		}
	case AuthModeSSO:
		if cfg.Clients.SSO.Address == "" {
			return fmt.Errorf("clients.sso.address is required in %s mode", AuthModeSSO)
		}
	default:
		return fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}

	return nil
}

func (cfg *Database) GetDSN() string {
	switch cfg.Driver {
	case DriverPostgres:
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.UsernameDB, cfg.Password),
			Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=disable",
		}
		return dsn.String()
	case DriverSQLite:
		return cfg.Path
	}

	dsn := mysql.NewConfig()
	dsn.User = cfg.UsernameDB
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true

	return dsn.FormatDSN()
}
