package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret     string
	Expiration string
}

type StorageConfig struct {
	Provider      string
	Path          string
	MaxUploadSize int64
	SeaweedFS     SeaweedFSConfig
	S3            S3Config
}

type SeaweedFSConfig struct {
	MasterURL  string
	VolumePort int
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Endpoint        string
	ForcePathStyle  bool
}

// Load reads configuration from the environment, with .env as a fallback
// source. Missing keys fall back to development defaults.
func Load() (*Config, error) {
	// A missing .env file is fine in production; env vars take over.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resource_center"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key"),
			Expiration: getEnv("JWT_EXPIRATION", "24h"),
		},
		Storage: StorageConfig{
			Provider:      getEnv("STORAGE_PROVIDER", "local"),
			Path:          getEnv("STORAGE_PATH", "./storage/resources"),
			MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE", 104857600)),
			SeaweedFS: SeaweedFSConfig{
				MasterURL:  getEnv("SEAWEEDFS_MASTER_URL", "http://localhost:9333"),
				VolumePort: getEnvAsInt("SEAWEED_VOLUME_PORT", 8080),
			},
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "us-east-1"),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				BucketName:      getEnv("AWS_BUCKET_NAME", ""),
				PublicURL:       getEnv("AWS_PUBLIC_URL", ""),
				Endpoint:        getEnv("AWS_ENDPOINT", ""),
				ForcePathStyle:  getEnvAsBool("AWS_FORCE_PATH_STYLE", false),
			},
		},
	}

	return config, nil
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
