package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The relational store is mandatory; the document
// store and the seed script have sensible defaults so the demo runs against
// a local docker-compose setup without extra variables.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	DBUser   string // MySQL username
	DBPass   string // MySQL password (optional)
	DBHost   string // MySQL host address
	DBPort   string // MySQL port number
	DBName   string // MySQL database name
	MongoURL string // MongoDB connection string
	MongoDB  string // MongoDB database name
	DBMode   string // initial backend mode: "sql" or "nosql"
	SeedPath string // path to the relational seed script
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:      must("APP_ENV"),
		Port:     must("APP_PORT"),
		DBUser:   must("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   must("DB_HOST"),
		DBPort:   must("DB_PORT"),
		DBName:   must("DB_NAME"),
		MongoURL: getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "rental_nosql"),
		DBMode:   mode(getenv("DB_MODE", "sql")),
		SeedPath: getenv("SEED_PATH", "seed/generate_data.sql"),
	}
}

// mode normalizes the backend mode flag; anything other than "nosql"
// falls back to the relational backend.
func mode(v string) string {
	if v == "nosql" {
		return "nosql"
	}
	return "sql"
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
