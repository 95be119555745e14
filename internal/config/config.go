package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	LotCapacity    int
	BaseRate       float64
	RateMultiplier float64
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	capacity, err := strconv.Atoi(getEnv("GARAGE_CAPACITY", "10"))
	if err != nil || capacity <= 0 {
		log.Printf("Warning: invalid GARAGE_CAPACITY, using default 10")
		capacity = 10
	}

	baseRate, err := strconv.ParseFloat(getEnv("BASE_RATE", "3"), 64)
	if err != nil || baseRate < 0 {
		log.Printf("Warning: invalid BASE_RATE, using default 3")
		baseRate = 3
	}

	multiplier, err := strconv.ParseFloat(getEnv("RATE_MULTIPLIER", "1.5"), 64)
	if err != nil || multiplier <= 0 {
		log.Printf("Warning: invalid RATE_MULTIPLIER, using default 1.5")
		multiplier = 1.5
	}

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LotCapacity:    capacity,
		BaseRate:       baseRate,
		RateMultiplier: multiplier,
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
