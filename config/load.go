package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultCategory       = "Uncategorized"
	DefaultMaxAttachments = 5
)

// Default returns the configurations used when no file or environment
// variable overrides a value.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver:     "sqlite",
			SqlitePath: "sparkloop.db",
		},
		ApiServer: APIServerConfigs{
			Port:           "8080",
			AllowOrigins:   []string{"*"},
			RequestTimeout: 10 * time.Second,
			DefaultLimit:   20,
			MaxLimit:       50,
		},
		Auth: AuthConfigs{
			TokenIssuer: "sparkloop",
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		File: FileConfigs{
			MaxSize:        2,
			MaxAttachments: DefaultMaxAttachments,
		},
		Idea: IdeaConfigs{
			DefaultCategory:  DefaultCategory,
			PublicURL:        "http://localhost:3000",
			OperationTimeout: 10 * time.Second,
		},
		Mail: MailConfigs{
			Port:     "587",
			FromName: "SparkLoop",
		},
		Snowflake: SnowflakeConfigs{NodeID: 1},
	}
}

// Load reads the toml file at path (optional) on top of the default
// configurations, then applies environment variable overrides.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Configs) {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_NAME")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.SqlitePath, "DB_SQLITE_PATH")

	setString(&cfg.ApiServer.Host, "API_HOST")
	setString(&cfg.ApiServer.Port, "API_PORT")
	if v := os.Getenv("API_ALLOW_ORIGINS"); v != "" {
		cfg.ApiServer.AllowOrigins = strings.Split(v, ",")
	}
	setDuration(&cfg.ApiServer.RequestTimeout, "API_REQUEST_TIMEOUT")

	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Auth.TokenIssuer, "TOKEN_ISSUER")
	setString(&cfg.Auth.AccessToken.Name, "ACCESS_TOKEN_NAME")
	setDuration(&cfg.Auth.AccessToken.Expiration, "ACCESS_TOKEN_EXPIRATION")

	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.PublicEndpoint, "STORAGE_PUBLIC_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")

	setInt(&cfg.File.MaxSize, "MAX_UPLOAD_FILE")
	setString(&cfg.Idea.PublicURL, "PUBLIC_URL")

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enable = true
	}

	setString(&cfg.Mail.Host, "SMTP_HOST")
	setString(&cfg.Mail.Port, "SMTP_PORT")
	setString(&cfg.Mail.Username, "SMTP_USERNAME")
	setString(&cfg.Mail.Password, "SMTP_PASSWORD")
	setString(&cfg.Mail.From, "SMTP_FROM")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
