package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

type AppConf struct {
	Env             string `mapstructure:"env"`
	Port            int    `mapstructure:"port"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
	StaticDir       string `mapstructure:"static_dir"`
}

type CORSConf struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MongoConf struct {
	URI             string `mapstructure:"uri"`
	Database        string `mapstructure:"database"`
	UsersCollection string `mapstructure:"users_collection"`
	MediaCollection string `mapstructure:"media_collection"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type JWTConf struct {
	Secret        string `mapstructure:"secret"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

type AuthConf struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type UploadConf struct {
	MaxFileSizeMB  int `mapstructure:"max_file_size_mb"`
	ThumbnailWidth int `mapstructure:"thumbnail_width"`
}

type LogConf struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	App    AppConf    `mapstructure:"app"`
	CORS   CORSConf   `mapstructure:"cors"`
	Mongo  MongoConf  `mapstructure:"mongodb"`
	AWS    AWSConf    `mapstructure:"aws"`
	JWT    JWTConf    `mapstructure:"jwt"`
	Auth   AuthConf   `mapstructure:"auth"`
	Upload UploadConf `mapstructure:"upload"`
	Log    LogConf    `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	TokenTTL        time.Duration
	MaxFileBytes    int64
}

func (c *Config) Dev() bool {
	return c.App.Env == "development"
}

func Load(path string) (*Config, error) {
	// .env is optional, real env always wins
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongodb.uri is required")
	}
	if cfg.AWS.Bucket == "" {
		return nil, errors.New("aws.bucket is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}

	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSeconds) * time.Second
	cfg.TokenTTL = time.Duration(cfg.JWT.ExpireMinutes) * time.Minute
	cfg.MaxFileBytes = int64(cfg.Upload.MaxFileSizeMB) * 1024 * 1024
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if s := os.Getenv("MONGODB_URI"); s != "" {
		cfg.Mongo.URI = s
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		cfg.JWT.Secret = s
	}
	if s := os.Getenv("AWS_REGION"); s != "" {
		cfg.AWS.Region = s
	}
	if s := os.Getenv("AWS_S3_BUCKET"); s != "" {
		cfg.AWS.Bucket = s
	}
	if s := os.Getenv("AWS_S3_ENDPOINT"); s != "" {
		cfg.AWS.Endpoint = s
	}
	if s := os.Getenv("PORT"); s != "" {
		if p, err := strconv.Atoi(s); err == nil {
			cfg.App.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.ShutdownSeconds == 0 {
		cfg.App.ShutdownSeconds = 15
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "mediavault"
	}
	if cfg.Mongo.UsersCollection == "" {
		cfg.Mongo.UsersCollection = "users"
	}
	if cfg.Mongo.MediaCollection == "" {
		cfg.Mongo.MediaCollection = "media"
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 60
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Upload.MaxFileSizeMB == 0 {
		cfg.Upload.MaxFileSizeMB = 50
	}
	if cfg.Upload.ThumbnailWidth == 0 {
		cfg.Upload.ThumbnailWidth = 320
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 100
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 30
	}
}
