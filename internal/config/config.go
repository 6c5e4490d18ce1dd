package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type ReversalConfig struct {
	Env          string `yaml:"env"`
	HTTPServer   `yaml:"http_server"`
	ReversalDB   `yaml:"reversal_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Migrations   `yaml:"migrations"`
	Workflow     `yaml:"workflow"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type ReversalDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Topic      string `yaml:"topic" env-default:"reversal-events"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Mechanism  string `yaml:"mechanism"`
	TLSEnabled bool   `yaml:"tls_enabled"`
}

type Migrations struct {
	Path string `yaml:"path"`
}

type Workflow struct {
	// PerTableTimeoutSeconds bounds each audit-table fan-out query so one
	// slow table cannot stall an aggregate read.
	PerTableTimeoutSeconds int `yaml:"per_table_timeout_seconds" env-default:"5"`
}

func MustLoad() *ReversalConfig {

	// Processing env config variable and file
	configPath := os.Getenv("REVERSAL_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("REVERSAL_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg ReversalConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
