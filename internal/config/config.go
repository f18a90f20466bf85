package config

import (
	"os"
	"strconv"
	"time"
)

// Storage drivers understood by the database package.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Blob backends understood by the blob package.
const (
	BlobLocal = "local"
	BlobS3    = "s3"
)

type Config struct {
	HTTPAddr        string
	GinMode         string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	StorageDriver string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	JWTTTL    time.Duration

	BlobBackend     string
	UploadDir       string
	MaxPictureBytes int64
	DefaultPicture  string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
}

func Load() *Config {
	return &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverMySQL),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "internuser"),
		DBPassword:    getEnv("DB_PASSWORD", "internpassword"),
		DBName:        getEnv("DB_NAME", "intern_management"),
		SQLitePath:    getEnv("SQLITE_PATH", "intern_management.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "intern_management"),

		JWTSecret: getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		BlobBackend:     getEnv("BLOB_BACKEND", BlobLocal),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		MaxPictureBytes: getEnvInt64("MAX_PICTURE_BYTES", 5<<20),
		DefaultPicture:  getEnv("DEFAULT_PROFILE_PICTURE", ""),
		S3Bucket:        getEnv("S3_BUCKET", "profile-pictures"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
