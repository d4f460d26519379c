package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	// Driver selects the user directory backend: "sqlite" or "dynamo".
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`

	// connection pool tuning (driver "sqlite")
	MaxOpenConns    int `mapstructure:"max_open_conns"`
	MaxIdleConns    int `mapstructure:"max_idle_conns"`
	ConnMaxLifeMins int `mapstructure:"conn_max_life_mins"`

	// DynamoDB settings (driver "dynamo")
	Region     string `mapstructure:"region"`
	UsersTable string `mapstructure:"users_table"`
	LogsTable  string `mapstructure:"logs_table"`
}

type StorageConfig struct {
	// Driver selects the file store backend: "local" or "s3".
	Driver       string `mapstructure:"driver"`
	UploadDir    string `mapstructure:"upload_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`

	// S3-compatible settings (driver "s3")
	Endpoint        string `mapstructure:"endpoint"`
	AccessKey       string `mapstructure:"access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	UploadBucket    string `mapstructure:"upload_bucket"`
	ProcessedBucket string `mapstructure:"processed_bucket"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"`
	Operator string `mapstructure:"operator"`
}

type NotifyConfig struct {
	// Driver selects the notifier backend: "smtp", "sns" or "none".
	Driver   string `mapstructure:"driver"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

type UploadConfig struct {
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Mail     MailConfig     `mapstructure:"mail"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. NH_SERVER_PORT=9000
		v.SetEnvPrefix("NH")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetDefault("server.address", "0.0.0.0")
		v.SetDefault("server.port", 5000)
		v.SetDefault("database.driver", "sqlite")
		v.SetDefault("database.path", "data/site.db")
		v.SetDefault("database.max_open_conns", 10)
		v.SetDefault("database.max_idle_conns", 5)
		v.SetDefault("database.conn_max_life_mins", 60)
		v.SetDefault("storage.driver", "local")
		v.SetDefault("storage.upload_dir", "static/uploads")
		v.SetDefault("storage.processed_dir", "static/processed")
		v.SetDefault("notify.driver", "none")
		v.SetDefault("jwt.expire_hours", 24)
		v.SetDefault("upload.max_size_mb", 64)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}
