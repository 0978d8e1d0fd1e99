package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Storage   S3Configs
	File      FileConfigs
	Idea      IdeaConfigs
	Redis     RedisConfigs
	Mail      MailConfigs
	Snowflake SnowflakeConfigs
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string

	// SqlitePath is used when Driver is "sqlite".
	SqlitePath string
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.SqlitePath
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host           string
	Port           string
	AllowOrigins   []string
	RequestTimeout time.Duration
	DefaultLimit   int
	MaxLimit       int
}

func (c APIServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	TokenSecret string

	// TokenIssuer is the iss claim of the account directory tokens. Tokens of
	// another issuer are rejected.
	TokenIssuer string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

type FileConfigs struct {
	// MaxSize is in megabytes.
	MaxSize        int
	MaxAttachments int
}

type IdeaConfigs struct {
	DefaultCategory string
	PublicURL       string

	// OperationTimeout bounds multi-step chain operations which must finish
	// even if the caller goes away.
	OperationTimeout time.Duration
}

type RedisConfigs struct {
	Enable bool
	Addr   string
}

type MailConfigs struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type SnowflakeConfigs struct {
	NodeID int64
}
