package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// StorageConfig selects and configures the file store backing uploaded
// case documents.
type StorageConfig struct {
	Driver string      `mapstructure:"driver"` // "local" or "s3"
	Local  LocalConfig `mapstructure:"local"`
	S3     S3Config    `mapstructure:"s3"`
}

// LocalConfig configures the disk-backed store. PublicBase is the URL path
// the upload directory is served under.
type LocalConfig struct {
	Dir        string `mapstructure:"dir"`
	PublicBase string `mapstructure:"public_base"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling: storage.local.dir -> STORAGE_LOCAL_DIR etc.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "case_app")
	viper.SetDefault("storage.driver", StorageDriverLocal)
	viper.SetDefault("storage.local.dir", "./uploads")
	viper.SetDefault("storage.local.public_base", "/uploads")
	viper.SetDefault("storage.s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "168h") // 7 days, mobile clients re-login rarely

	err = viper.ReadInConfig()
	// Missing config file is fine: defaults plus env vars carry a dev setup.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	switch config.Storage.Driver {
	case StorageDriverLocal, StorageDriverS3:
	default:
		return config, fmt.Errorf("config: unknown storage driver %q", config.Storage.Driver)
	}

	return config, nil
}
