// Package config loads service settings from the environment and an
// optional .env file in the working directory.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	MongoURI        string
	DBName          string
	CORSOrigins     []string
	ImagesDir       string
	BodyLimit       int
	ShutdownTimeout time.Duration

	OTelEnabled  bool
	OTelEndpoint string

	KafkaBrokers []string
	OrdersTopic  string
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("db_name", "cwDatabase")
	v.SetDefault("cors_origins", "")
	v.SetDefault("images_dir", "public/lessons")
	v.SetDefault("body_limit", 10*1024)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "localhost:4317")
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("orders_topic", "orders")
}

// Load reads configuration. envFile may be empty to skip the file; a
// missing file is not an error. Environment variables take precedence.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	return &Config{
		Port:            v.GetString("port"),
		MongoURI:        v.GetString("mongo_uri"),
		DBName:          v.GetString("db_name"),
		CORSOrigins:     parseCSV(v.GetString("cors_origins")),
		ImagesDir:       v.GetString("images_dir"),
		BodyLimit:       v.GetInt("body_limit"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		OTelEnabled:     v.GetBool("otel_enabled"),
		OTelEndpoint:    v.GetString("otel_exporter_otlp_endpoint"),
		KafkaBrokers:    parseCSV(v.GetString("kafka_brokers")),
		OrdersTopic:     v.GetString("orders_topic"),
	}, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
