package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string
	UploadDir  string

	// Секреты читаются через кэш, см. secrets.go
	JWTSecret     string
	GeminiAPIKey  string
	KorsifyAPIKey string

	AIProvider string // gemini, korsify
}

// LoadConfig собирает конфигурацию из окружения. Чувствительные
// значения идут через переданный кэш секретов.
func LoadConfig(secrets *SecretsCache) (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	jwtSecret, err := secrets.Get("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	// Ключи AI-провайдеров опциональны: без них генерация вернёт
	// ошибку, остальное API продолжит работать
	geminiKey, _ := secrets.Get("GEMINI_API_KEY")
	korsifyKey, _ := secrets.Get("KORSIFY_API_KEY")

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "korsify"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),

		JWTSecret:     jwtSecret,
		GeminiAPIKey:  geminiKey,
		KorsifyAPIKey: korsifyKey,

		AIProvider: getEnv("AI_PROVIDER", "gemini"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
