package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTelegramTimeout membatasi berapa lama create/return menunggu Telegram.
const DefaultTelegramTimeout = 2 * time.Second

// Config dibaca sekali saat start lalu di-inject ke setiap komponen.
type Config struct {
	Port        string
	Environment string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string
	DBDriver   string // "pgx" (default) atau "postgres" (lib/pq)
	DBLogLevel string

	JWTSecret string

	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIBase  string
	TelegramTimeout  time.Duration

	LibraryTimezone    string
	CORSOrigins        []string
	RateLimitPerMinute int
}

// =======================
// ENV LOADER
// =======================

// LoadEnv memuat .env kalau ada. ENV dari sistem selalu menang.
func LoadEnv() {
	if os.Getenv("LIBRARY_ENVIRONMENT") != "" {
		log.Println("[Config] running in", os.Getenv("LIBRARY_ENVIRONMENT"), "- using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] no .env file found, using system ENV")
		return
	}
	log.Println("[Config] .env loaded")
}

// Load membaca ENV ke Config. Panggil LoadEnv lebih dulu kalau ingin .env ikut dibaca.
func Load() Config {
	cfg := Config{
		Port:        GetEnv("PORT", "3000"),
		Environment: GetEnv("LIBRARY_ENVIRONMENT", "development"),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME", "library"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),
		DBDriver:   GetEnv("DB_DRIVER", "pgx"),
		DBLogLevel: GetEnv("DB_LOG_LEVEL", "warn"),

		JWTSecret: GetEnv("JWT_SECRET"),

		TelegramBotToken: GetEnv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   GetEnv("TELEGRAM_CHAT_ID"),
		TelegramAPIBase:  strings.TrimRight(GetEnv("TELEGRAM_API_BASE", "https://api.telegram.org"), "/"),
		TelegramTimeout:  GetDuration("TELEGRAM_TIMEOUT", DefaultTelegramTimeout),

		LibraryTimezone: GetEnv("LIBRARY_TIMEZONE", "UTC"),
		CORSOrigins:     splitList(GetEnv("CORS_ORIGINS", "http://localhost:5173")),

		RateLimitPerMinute: GetInt("RATE_LIMIT_PER_MINUTE", 100),
	}

	if cfg.JWTSecret == "" {
		log.Println("[Config] JWT_SECRET is not set, authenticated routes will reject every request")
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		log.Println("[Config] TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set, notifications disabled")
	}
	return cfg
}

// NotificationsEnabled true kalau token & chat id Telegram terisi.
func (c Config) NotificationsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// Location mengembalikan zona waktu perpustakaan, fallback UTC.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(strings.TrimSpace(c.LibraryTimezone)); err == nil {
		return loc
	}
	log.Printf("[Config] invalid LIBRARY_TIMEZONE=%q, falling back to UTC", c.LibraryTimezone)
	return time.UTC
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// angka polos dianggap detik
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("[Config] invalid %s=%q, using %s", key, raw, def)
	return def
}

func GetInt(key string, def int) int {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[Config] invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
