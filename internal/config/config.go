package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/carvia-mobility/service-rental/pkg/database"
)

// JWTConfig holds token signing configuration.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker and consumer group configuration.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	MigrationsPath string
	DBConfig       database.PostgresConfig
	JWTConfig      JWTConfig
	KafkaConfig    KafkaConfig
}

// Load reads configuration from RENTAL_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rental")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "carvia.")

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		if v.GetString("APP_ENV") != "development" {
			return nil, fmt.Errorf("RENTAL_JWT_SECRET is required outside development")
		}
		jwtSecret = "dev-secret-do-not-use-in-production"
	}

	return &ServiceConfig{
		Port:           ":" + v.GetString("SERVICE_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{Secret: jwtSecret},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
	}, nil
}
