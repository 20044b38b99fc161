package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageDriverPostgres  = "postgres"
	StorageDriverFirestore = "firestore"

	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Firestore FirestoreConfig `yaml:"firestore"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConf       `yaml:"redis"`
	Blog      BlogConfig      `yaml:"blog"`
}

type HTTPConfig struct {
	Host        string        `yaml:"host"`
	Port        string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type StorageConfig struct {
	Driver         string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	DSN            string `yaml:"dsn" env:"STORAGE_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"./migrations"`
}

type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id" env:"FIRESTORE_PROJECT_ID"`
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Collection      string `yaml:"collection" env-default:"blogPosts"`
}

type AuthConfig struct {
	Provider       string        `yaml:"provider" env:"AUTH_PROVIDER" env-default:"jwt"`
	Secret         string        `yaml:"secret" env:"AUTH_SECRET"`
	TokenTTL       time.Duration `yaml:"token_ttl" env-default:"1h"`
	ClaimsCacheTTL time.Duration `yaml:"claims_cache_ttl" env-default:"1m"`
	AdminClaim     string        `yaml:"admin_claim" env-default:"admin"`
}

type RedisConf struct {
	Enabled       bool          `yaml:"enabled" env:"REDIS_ENABLED"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

type BlogConfig struct {
	BaseURL        string `yaml:"base_url" env:"BLOG_BASE_URL" env-default:"http://localhost:3000"`
	WordsPerMinute int    `yaml:"words_per_minute" env-default:"200"`
	ReadTimeFormat string `yaml:"read_time_format" env-default:"%d dk okuma"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
