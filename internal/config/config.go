package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// IndexEndpoint описывает один удаленный индекс-сервис (vector DB / multilabel).
// UpdateMethod позволяет переопределить HTTP-метод update-запроса:
// multilabel-бэкенд принимает PUT, остальные POST.
type IndexEndpoint struct {
	Name         string `yaml:"name"`
	InsertURL    string `yaml:"insert_url"`
	UpdateURL    string `yaml:"update_url"`
	DeleteURL    string `yaml:"delete_url"`
	UpdateMethod string `yaml:"update_method"`
}

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr       string `yaml:"addr"`
		SessionTTL int    `yaml:"session_ttl"` // seconds
	} `yaml:"redis"`

	Storage struct {
		Type      string `yaml:"type"`      // local, cloudflare_r2
		BasePath  string `yaml:"base_path"` // For local storage
		BaseURL   string `yaml:"base_url"`  // Public URL base (/static)
		Bucket    string `yaml:"bucket"`    // For R2
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize     int64 `yaml:"max_size"`      // Max file size in bytes
		MaxImageDim int   `yaml:"max_image_dim"` // Longest side after normalization
	} `yaml:"upload"`

	AI struct {
		AgingURL          string          `yaml:"aging_url"`
		SimilarityURL     string          `yaml:"similarity_url"`
		AttrSimilarityURL string          `yaml:"attr_similarity_url"`
		TimeoutSeconds    int             `yaml:"timeout_seconds"`
		IndexEndpoints    []IndexEndpoint `yaml:"index_endpoints"`
		NotifyWorkers     int             `yaml:"notify_workers"`
		NotifyQueueSize   int             `yaml:"notify_queue_size"`
	} `yaml:"ai"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	// .env подхватывается до чтения переменных окружения (как в остальных сервисах)
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Режим теста/контейнера: конфигурация из переменных окружения
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./img_store"
	cfg.Storage.BaseURL = "/static"

	cfg.AI.AgingURL = os.Getenv("AI_AGING_URL")
	cfg.AI.SimilarityURL = os.Getenv("AI_SIMILARITY_URL")
	cfg.AI.AttrSimilarityURL = os.Getenv("AI_ATTR_SIMILARITY_URL")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Redis.SessionTTL <= 0 {
		cfg.Redis.SessionTTL = 3600
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = 10
	}
	if cfg.AI.NotifyWorkers <= 0 {
		cfg.AI.NotifyWorkers = 4
	}
	if cfg.AI.NotifyQueueSize <= 0 {
		cfg.AI.NotifyQueueSize = 256
	}
	if cfg.Upload.MaxSize <= 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if cfg.Upload.MaxImageDim <= 0 {
		cfg.Upload.MaxImageDim = 1600
	}
	for i := range cfg.AI.IndexEndpoints {
		if cfg.AI.IndexEndpoints[i].UpdateMethod == "" {
			cfg.AI.IndexEndpoints[i].UpdateMethod = "POST"
		}
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
