package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUrl         string
	RedisAddr     string
	RedisPassword string
	AllowedOrigin string
	ListenAddr    string
}

func LoadConfig() Config {
	err := godotenv.Load()

	if err != nil {
		log.Println("No .env file found. Using environment variables.")
	}

	cfg := Config{
		DBUrl:         os.Getenv("DB_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "http://localhost:5173"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3001"
	}

	return cfg
}
