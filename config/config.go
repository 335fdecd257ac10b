package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

var (
	MAIN_ROUTES  string
	APP_PORT     string
	APP_ENV      string
	LOG_LEVEL    string
	JWTSecret    string
	AuthRequired bool

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSqlitePath   string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBLogLevel     string
	SeedData       bool

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	NotifyEmails []string

	WebhookURL     string
	WebhookToken   string
	WebhookTimeout time.Duration

	ReconcileCron string
	SnowflakeNode int64

	allowedOrigins map[string]bool
)

// LoadConfig membaca file .env dan menginisialisasi variabel konfigurasi
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Server
	MAIN_ROUTES = getEnv("MAIN_ROUTES", "/api/v1")
	APP_PORT = getEnv("APP_PORT", "9000")
	APP_ENV = getEnv("APP_ENV", "development")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")

	// Operator identity
	JWTSecret = getEnv("JWT_SECRET", "")
	AuthRequired = getEnvAsBool("AUTH_REQUIRED", false)

	// Database
	DBDriver = getEnv("DB_DRIVER", "postgres")
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "5432")
	DBUser = getEnv("DB_USER", "postgres")
	DBPassword = getEnv("DB_PASSWORD", "postgres")
	DBName = getEnv("DB_NAME", "fiber_erp")
	DBSqlitePath = getEnv("DB_SQLITE_PATH", "fiber_erp.db")
	DBMaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	DBMaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	DBLogLevel = getEnv("DB_LOG_LEVEL", "warn")
	SeedData = getEnvAsBool("SEED_DATA", false)

	// Notifications
	SMTPHost = getEnv("SMTP_HOST", "")
	SMTPPort = getEnvAsInt("SMTP_PORT", 465)
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPassword = getEnv("SMTP_PASSWORD", "")
	SMTPFrom = getEnv("SMTP_FROM", SMTPUser)
	NotifyEmails = splitList(getEnv("NOTIFY_EMAILS", ""))

	WebhookURL = getEnv("WEBHOOK_URL", "")
	WebhookToken = getEnv("WEBHOOK_TOKEN", "")
	WebhookTimeout = getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second)

	ReconcileCron = getEnv("RECONCILE_CRON", "0 2 * * *")
	SnowflakeNode = int64(getEnvAsInt("SNOWFLAKE_NODE", 1))

	loadAllowedOrigins()
}

// Validate checks the combinations LoadConfig cannot default its way out of.
func Validate() error {
	switch DBDriver {
	case "postgres", "mysql", "mssql", "sqlite":
	default:
		return errors.New("DB_DRIVER must be one of postgres, mysql, mssql, sqlite")
	}

	if AuthRequired && JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided when AUTH_REQUIRED is true")
	}

	if SMTPHost != "" && len(NotifyEmails) == 0 {
		return errors.New("NOTIFY_EMAILS must be provided when SMTP_HOST is set")
	}

	if SnowflakeNode < 0 || SnowflakeNode > 1023 {
		return errors.New("SNOWFLAKE_NODE must be between 0 and 1023")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadAllowedOrigins memuat daftar origin yang diizinkan dari environment variable
func loadAllowedOrigins() {
	allowedOrigins = make(map[string]bool)

	origins := splitList(getEnv("ALLOWED_ORIGINS", ""))
	if len(origins) == 0 {
		allowedOrigins["http://127.0.0.1:3000"] = true
		return
	}

	for _, origin := range origins {
		allowedOrigins[origin] = true
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Operator, X-Request-ID")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}

// ErrorHandler renders errors that escape the controllers, including
// fiber's own 404/405 and body-limit errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"message": fe.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
	})
}
