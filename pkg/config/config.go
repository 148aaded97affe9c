package config

import (
	"log"
	"os"
	"time"

	"github.com/Zaharysh37/order-service/pkg/utils"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTP        HTTP        `yaml:"http"`
	Postgres    PG          `yaml:"postgres"`
	Redis       Redis       `yaml:"redis"`
	Kafka       Kafka       `yaml:"kafka"`
	UserService UserService `yaml:"user_service"`
	Auth        Auth        `yaml:"auth"`
	Log         Log         `yaml:"log"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	ProducerTopic string   `yaml:"producer_topic" env:"KAFKA_PRODUCER_TOPIC" env-default:"order_created"`
	ConsumerTopic string   `yaml:"consumer_topic" env:"KAFKA_CONSUMER_TOPIC" env-default:"payment_events"`
	GroupID       string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"order-service-group"`
}

type UserService struct {
	URL     string        `yaml:"url" env:"USER_SERVICE_URL" env-default:"http://localhost:8081"`
	Timeout time.Duration `yaml:"timeout" env:"USER_SERVICE_TIMEOUT" env-default:"2s"`

	// Circuit breaker knobs for the user directory dependency.
	BreakerFailures uint32        `yaml:"breaker_failures" env:"USER_SERVICE_BREAKER_FAILURES" env-default:"5"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" env:"USER_SERVICE_BREAKER_COOLDOWN" env-default:"10s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
