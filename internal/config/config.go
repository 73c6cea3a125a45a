package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Reference data
	DataPath string

	// AWS
	AWSRegion         string
	CognitoUserPoolID string
	CognitoClientID   string
	DynamoTableName   string

	// Backend selection: "cognito"/"local" and "dynamodb"/"memory".
	// Local/memory run the full app without AWS credentials.
	IdentityBackend string
	StoreBackend    string

	// Local identity provider
	LocalAuthSecret string
	LocalTokenTTL   time.Duration

	// CORS
	AllowedOrigins []string
}

// Load loads environment variables and returns a Config struct
func Load() *Config {
	_ = godotenv.Load()

	tokenTTLMin, _ := strconv.Atoi(getEnv("LOCAL_TOKEN_MINUTES", "60"))

	allowedOrigins := strings.Split(
		getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		",",
	)

	return &Config{
		Port:              getEnv("APP_PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		DataPath:          getEnv("DATA_PATH", "ashrae_data.csv"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		CognitoUserPoolID: getEnv("COGNITO_USER_POOL_ID", ""),
		CognitoClientID:   getEnv("COGNITO_CLIENT_ID", ""),
		DynamoTableName:   getEnv("DYNAMODB_TABLE_NAME", "CoolingProjects"),
		IdentityBackend:   getEnv("IDENTITY_BACKEND", "cognito"),
		StoreBackend:      getEnv("STORE_BACKEND", "dynamodb"),
		LocalAuthSecret:   getEnv("LOCAL_AUTH_SECRET", ""),
		LocalTokenTTL:     time.Duration(tokenTTLMin) * time.Minute,
		AllowedOrigins:    allowedOrigins,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
