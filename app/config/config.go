package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"shulepro/app/models"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB               *sql.DB
	JWTSecret        string
	Port             string
	IncompletePolicy models.IncompletePolicy
}

var AppConfig *Config

// Load reads .env if present and builds the runtime configuration.
// Called once from main before InitDB.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	policy, err := models.ParseIncompletePolicy(os.Getenv("MARKS_INCOMPLETE_POLICY"))
	if err != nil {
		log.Fatalf("Invalid MARKS_INCOMPLETE_POLICY: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "shulepro-dev-secret" // development fallback, set JWT_SECRET in production
		log.Println("JWT_SECRET not set, using development default")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	AppConfig = &Config{
		JWTSecret:        secret,
		Port:             port,
		IncompletePolicy: policy,
	}
}

func InitDB() {
	if AppConfig == nil {
		Load()
	}

	psqlInfo := os.Getenv("DATABASE_URL")
	if psqlInfo == "" {
		host := envOr("DB_HOST", "localhost")
		port := envIntOr("DB_PORT", 5432)
		user := envOr("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		dbname := envOr("DB_NAME", "shulepro")
		sslmode := envOr("DB_SSLMODE", "disable")

		psqlInfo = fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s connect_timeout=60",
			host, port, user, dbname, sslmode)
		if password != "" {
			psqlInfo += " password=" + password
		}
		log.Printf("Connecting to database %s at %s:%d", dbname, host, port)
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatalf("Cannot establish database connection: %v", err)
	}

	AppConfig.DB = db
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

// JWTSecret returns the signing key for session tokens
func JWTSecret() []byte {
	return []byte(AppConfig.JWTSecret)
}

// MarksIncompletePolicy returns how aggregation treats composite subjects
// with missing component marks.
func MarksIncompletePolicy() models.IncompletePolicy {
	return AppConfig.IncompletePolicy
}

// Port returns the HTTP listen port
func Port() string {
	return AppConfig.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
