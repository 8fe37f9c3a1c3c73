package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	ApiServer   ServerConfigs      `toml:"api_server"`
	Database    DatabaseConfigs    `toml:"database"`
	Auth        AuthConfigs        `toml:"auth"`
	Session     SessionConfigs     `toml:"session"`
	Groq        GroqConfigs        `toml:"groq"`
	HuggingFace HuggingFaceConfigs `toml:"huggingface"`
	Dataset     DatasetConfigs     `toml:"dataset"`
	SearchIndex SearchIndexConfigs `toml:"search_index"`
	Redis       RedisConfigs       `toml:"redis"`
	Kafka       KafkaConfigs       `toml:"kafka"`
	Storage     S3Configs          `toml:"storage"`
}

type ServerConfigs struct {
	Host    string `toml:"host"`
	Port    string `toml:"port"`
	BaseURL string `toml:"base_url"`

	// MaxBulkMedicines bounds a single bulk alternatives request.
	MaxBulkMedicines int `toml:"max_bulk_medicines"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	// Driver is either "sqlite" or "mysql".
	Driver string `toml:"driver"`

	// SQLitePath is the key store file used by the sqlite driver.
	SQLitePath string `toml:"sqlite_path"`

	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type AuthConfigs struct {
	TokenSecret string       `toml:"-"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type SessionConfigs struct {
	Secret string `toml:"-"`
	Name   string `toml:"name"`
}

type GroqConfigs struct {
	APIKey string `toml:"-"`
	Model  string `toml:"model"`
}

type HuggingFaceConfigs struct {
	APIToken string `toml:"-"`
	Model    string `toml:"model"`
}

type DatasetConfigs struct {
	CSVPath string `toml:"csv_path"`

	// When Bucket is set, the indexer fetches the dataset object from S3
	// instead of the local CSVPath and uploads the build summary back.
	Bucket string `toml:"bucket"`
	Object string `toml:"object"`
}

type SearchIndexConfigs struct {
	IndexDir string `toml:"index_dir"`
	TopK     int    `toml:"top_k"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr       string `toml:"addr"`
	UsageTopic string `toml:"usage_topic"`
}

type S3Configs struct {
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	PublicEndpoint string `toml:"public_endpoint"`
	AccessKey      string `toml:"-"`
	SecretKey      string `toml:"-"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
}

// Load builds the configuration from an optional TOML file pointed to by
// CONFIG_FILE, with environment variables taking precedence. Secrets are
// never read from the file.
func Load() (*Configs, error) {
	cfg := defaultConfigs()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, fmt.Errorf("cannot decode config file %s: %w", file, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaultConfigs() *Configs {
	return &Configs{
		Env: "development",
		ApiServer: ServerConfigs{
			Host:             "0.0.0.0",
			Port:             "5000",
			BaseURL:          "http://localhost:5000",
			MaxBulkMedicines: 10,
		},
		Database: DatabaseConfigs{
			Driver:     "sqlite",
			SQLitePath: "api_keys.db",
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Session: SessionConfigs{
			Name: "theraswitch_session",
		},
		Groq: GroqConfigs{
			Model: "llama-3.1-8b-instant",
		},
		HuggingFace: HuggingFaceConfigs{
			Model: "mistralai/Mistral-7B-Instruct-v0.2",
		},
		Dataset: DatasetConfigs{
			CSVPath: "data/indian_medicine_all_with_alternatives.csv",
		},
		SearchIndex: SearchIndexConfigs{
			IndexDir: "searchindex",
			TopK:     3,
		},
		Kafka: KafkaConfigs{
			UsageTopic: "api_usage",
		},
	}
}

func applyEnv(cfg *Configs) {
	setEnv(&cfg.Env, "APP_ENV", "FLASK_ENV")
	setEnv(&cfg.ApiServer.Host, "HOST")
	setEnv(&cfg.ApiServer.Port, "PORT")
	setEnv(&cfg.ApiServer.BaseURL, "BASE_URL")
	setEnv(&cfg.Database.Driver, "DB_DRIVER")
	setEnv(&cfg.Database.SQLitePath, "DB_PATH")
	setEnv(&cfg.Database.Host, "DB_HOST")
	setEnv(&cfg.Database.Port, "DB_PORT")
	setEnv(&cfg.Database.Database, "DB_NAME")
	setEnv(&cfg.Database.User, "DB_USER")
	setEnv(&cfg.Database.Password, "DB_PASSWORD")
	setEnv(&cfg.Auth.TokenSecret, "SECRET_KEY")
	setEnv(&cfg.Session.Secret, "SESSION_SECRET", "SECRET_KEY")
	setEnv(&cfg.Groq.APIKey, "GROQ_API_KEY")
	setEnv(&cfg.Groq.Model, "GROQ_MODEL")
	setEnv(&cfg.HuggingFace.APIToken, "HUGGINGFACEHUB_API_TOKEN")
	setEnv(&cfg.HuggingFace.Model, "HUGGINGFACE_MODEL")
	setEnv(&cfg.Dataset.CSVPath, "DATASET_CSV")
	setEnv(&cfg.Dataset.Bucket, "DATASET_BUCKET")
	setEnv(&cfg.Dataset.Object, "DATASET_OBJECT")
	setEnv(&cfg.SearchIndex.IndexDir, "SEARCH_INDEX_DIR")
	setEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	setEnv(&cfg.Kafka.Addr, "KAFKA_ADDR")
	setEnv(&cfg.Kafka.UsageTopic, "KAFKA_USAGE_TOPIC")
	setEnv(&cfg.Storage.Region, "S3_REGION")
	setEnv(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setEnv(&cfg.Storage.PublicEndpoint, "S3_PUBLIC_ENDPOINT")
	setEnv(&cfg.Storage.AccessKey, "S3_ACCESS_KEY")
	setEnv(&cfg.Storage.SecretKey, "S3_SECRET_KEY")
}

// setEnv assigns the first non-empty environment variable among keys.
func setEnv(target *string, keys ...string) {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			*target = value
			return
		}
	}
}
