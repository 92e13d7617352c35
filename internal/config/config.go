package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		PublicRead bool   `yaml:"public_read"` // Make folders public by default
	} `yaml:"storage"`

	Transient struct {
		BasePath  string `yaml:"base_path"`  // Root for pre-checkout uploads
		BackupDir string `yaml:"backup_dir"` // Files are copied here before deletion
		TTLHours  int    `yaml:"ttl_hours"`  // Expiry for unattached uploads
	} `yaml:"transient"`

	Upload struct {
		MaxSize        int64    `yaml:"max_size"`         // Max file size in bytes
		AllowedTypes   []string `yaml:"allowed_types"`    // Allowed MIME types
		FetchTimeoutMS int      `yaml:"fetch_timeout_ms"` // Remote HTTP fetch timeout
	} `yaml:"upload"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, unless DATABASE_URL is set, in which case
// configuration comes from environment variables (test mode).
func LoadConfig() {
	var cfg Config

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

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads/drive"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Transient.BasePath = "./uploads/temp"
	cfg.Transient.BackupDir = "./uploads/backup"
	cfg.Transient.TTLHours = 48

	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	cfg.Upload.AllowedTypes = []string{
		"image/jpeg", "image/png", "image/gif", "image/webp",
	}
	cfg.Upload.FetchTimeoutMS = 15000

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Transient.TTLHours == 0 {
		cfg.Transient.TTLHours = 48
	}
	if cfg.Transient.BasePath == "" {
		cfg.Transient.BasePath = "./uploads/temp"
	}
	if cfg.Transient.BackupDir == "" {
		cfg.Transient.BackupDir = "./uploads/backup"
	}
	if cfg.Upload.FetchTimeoutMS == 0 {
		cfg.Upload.FetchTimeoutMS = 15000
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
