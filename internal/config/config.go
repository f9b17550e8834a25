package config

import (
	"os"
	"strconv"
	"strings"

	"Seva_Community/internal/pkg"
)

// Config 全量进程配置，环境变量覆盖默认值
type Config struct {
	HTTPAddr string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	SMTP pkg.SMTPConfig

	JWTAccessSecret  string
	JWTRefreshSecret string

	LogLevel  string
	LogFormat string // console / json
}

func Load() Config {
	return Config{
		HTTPAddr: env("HTTP_ADDR", ":8080"),

		MySQLDSN: env("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/seva_community?charset=utf8mb4&parseTime=True"),

		RedisAddr:     env("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: env("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		KafkaBrokers: envList("KAFKA_BROKERS", "127.0.0.1:9092"),
		KafkaTopic:   env("KAFKA_TOPIC", "community-activity"),

		SMTP: pkg.SMTPConfig{
			Host:     env("SMTP_HOST", "smtp.example.com"),
			Port:     envInt("SMTP_PORT", 587),
			Username: env("SMTP_USERNAME", "no-reply@example.com"),
			Password: env("SMTP_PASSWORD", ""),
			From:     env("SMTP_FROM", "NoReply <no-reply@example.com>"),
		},

		JWTAccessSecret:  env("JWT_ACCESS_SECRET", "dev-access-secret"),
		JWTRefreshSecret: env("JWT_REFRESH_SECRET", "dev-refresh-secret"),

		LogLevel:  env("LOG_LEVEL", "info"),
		LogFormat: env("LOG_FORMAT", "console"),
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envList 显式设为空串表示关闭该依赖，返回 nil
func envList(key, def string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		raw = def
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
