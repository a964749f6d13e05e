package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	sdk "github.com/matrixorigin/moi-go-sdk"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	MOI      MOIConfig      `yaml:"moi"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// StoreConfig selects the key-value backend: sqlite, mysql, redis or memory.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// AIConfig picks the text-generation backend. Provider is "gemini", "proxy"
// (OpenAI-compatible chat completions) or empty to disable insights.
type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

type MOIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	CatalogID      int64  `yaml:"catalog_id"`
	DatabaseID     int64  `yaml:"database_id"`
	ReportsTableID int64  `yaml:"reports_table_id"`
}

func (m MOIConfig) Enabled() bool { return m.APIKey != "" && m.ReportsTableID != 0 }

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 9871, AllowOrigins: []string{"*"}},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Auth:     AuthConfig{JWTSecret: "dlc-report-secret", TokenTTLHours: 7 * 24},
		Store:    StoreConfig{Driver: "sqlite", Path: "data/dlc.db"},
		Database: DatabaseConfig{Port: 3306, Name: "dlc_report"},
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "dlc:"},
		AI:       AIConfig{Provider: "gemini", Model: "gemini-3-flash-preview"},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/dlc-report/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Store.Driver, "STORE_DRIVER")
	envOverride(&c.Store.Path, "STORE_PATH")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Redis.Addr, "REDIS_ADDR")
	envOverride(&c.Redis.Password, "REDIS_PASSWORD")
	envOverride(&c.AI.Provider, "AI_PROVIDER")
	envOverride(&c.AI.Model, "AI_MODEL")
	envOverride(&c.AI.APIKey, "GEMINI_API_KEY")
	envOverride(&c.AI.BaseURL, "AI_BASE_URL")
	envOverride(&c.MOI.BaseURL, "MOI_BASE_URL")
	envOverride(&c.MOI.APIKey, "MOI_API_KEY")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	envOverrideInt(&c.Redis.DB, "REDIS_DB")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func (c *Config) NewRawClient() (*sdk.RawClient, error) {
	return sdk.NewRawClient(c.MOI.BaseURL, c.MOI.APIKey)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
