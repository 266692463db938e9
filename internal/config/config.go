package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Local storage
	DataDir       string
	LogFile       string
	StorageDriver string // file, sqlite or postgres
	DatabaseDSN   string

	// Mautic CRM
	MauticURL  string
	MauticUser string
	MauticPass string

	// Fast2SMS WhatsApp gateway
	Fast2SMSAPIKey string
	WhatsAppURL    string
	MessageID      string
	PhoneNumberID  string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DataDir:        getEnv("DATA_DIR", "/data/storage"),
		LogFile:        getEnv("LOG_FILE", "/data/logs/relay.log"),
		StorageDriver:  getEnv("STORAGE_DRIVER", "file"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "./relay.db"),
		MauticURL:      getEnv("MAUTIC_URL", ""),
		MauticUser:     getEnv("MAUTIC_USER", ""),
		MauticPass:     getEnv("MAUTIC_PASS", ""),
		Fast2SMSAPIKey: getEnv("FAST2SMS_API_KEY", ""),
		WhatsAppURL:    getEnv("FAST2SMS_WHATSAPP_URL", "https://www.fast2sms.com/dev/whatsapp"),
		MessageID:      getEnv("WHATSAPP_MESSAGE_ID", "10360"),
		PhoneNumberID:  getEnv("WHATSAPP_PHONE_NUMBER_ID", "978701858655665"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
