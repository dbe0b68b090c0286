package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type PostgreSQLConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUsername string
	DBPassword string
}

type JWTConfig struct {
	JWTSecret            string
	ExpiryMinutes        int
	RefreshWindowMinutes int
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

type TracingConfig struct {
	CollectorHost string
}

type Config struct {
	Environment      string
	ServicePort      string
	MetricsPort      string
	PostgreSQLConfig PostgreSQLConfig
	JWTConfig        JWTConfig
	KafkaConfig      KafkaConfig
	SMTPConfig       SMTPConfig
	TracingConfig    TracingConfig
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		Environment: os.Getenv("ENVIRONMENT"),
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		JWTConfig: JWTConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			ExpiryMinutes:        getEnvInt("JWT_EXPIRY_MINUTES", 60),
			RefreshWindowMinutes: getEnvInt("JWT_REFRESH_WINDOW_MINUTES", 20160),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		SMTPConfig: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	conf.KafkaConfig.BrokerPartition = getEnvInt("BROKER_PARTITION", 0)

	return &conf
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}
