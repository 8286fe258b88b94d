package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	DatabaseURL string

	// Public URLs
	BaseURL     string // absolute base for participate/leave/delete links
	MeetBaseURL string // external meeting room, the event token is appended

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// Localization
	DefaultLanguage string
	DefaultTimezone string
	Languages       []string
	// Display timezone per language, consulted when rendering mails.
	// Unmapped languages fall back to DefaultTimezone.
	TimeZonesByLang map[string]string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/videochat?charset=utf8mb4&parseTime=True&loc=UTC"),

		BaseURL:     getEnv("BASE_URL", "https://videochat.example.org"),
		MeetBaseURL: getEnv("MEET_BASE_URL", "https://meet.allmende.io"),

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@videochat.example.org"),
		FromName:     getEnv("FROM_NAME", "Video Chat"),

		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),
		Languages:       strings.Split(getEnv("LANGUAGES", "en,de"), ","),
		TimeZonesByLang: parseTimezoneMap(getEnv("TIMEZONES_BY_LANG", "de=Europe/Berlin")),
	}
}

// DisplayTimezone returns the timezone used when rendering datetimes for a
// given language.
func (c *Config) DisplayTimezone(language string) string {
	if tz, ok := c.TimeZonesByLang[language]; ok {
		return tz
	}
	return c.DefaultTimezone
}

// parseTimezoneMap parses "de=Europe/Berlin,fr=Europe/Paris" style values.
func parseTimezoneMap(value string) map[string]string {
	zones := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		zones[parts[0]] = parts[1]
	}
	return zones
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
