package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none)
// without overriding variables already present in the environment.
// Missing files are ignored.
func LoadDotEnv(log *logger.Logger, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil && log != nil {
			log.Warn("Could not load env file", "file", f, "error", err)
			continue
		}
		if log != nil {
			log.Debug("Loaded env file", "file", f)
		}
	}
}

func String(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		shown := val
		if sensitive(key) {
			shown = "<set>"
		}
		log.Debug("Environment variable found, using environment", "value", shown)
	}
	return strings.TrimSpace(val)
}

func sensitive(key string) bool {
	k := strings.ToUpper(key)
	return strings.Contains(k, "SECRET") || strings.Contains(k, "PASSWORD") || strings.Contains(k, "TOKEN")
}

func Int(key string, defaultVal int, log *logger.Logger) int {
	raw := String(key, "", log)
	if raw == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default", "env_var", key, "providedVal", raw, "defaultVal", defaultVal, "error", err)
		}
		return defaultVal
	}
	return i
}

func Float64(key string, defaultVal float64, log *logger.Logger) float64 {
	raw := String(key, "", log)
	if raw == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as float, using default", "env_var", key, "providedVal", raw, "defaultVal", defaultVal, "error", err)
		}
		return defaultVal
	}
	return f
}

func Bool(key string, defaultVal bool, log *logger.Logger) bool {
	switch strings.ToLower(String(key, "", log)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultVal
	}
}

func Duration(key string, defaultVal time.Duration, log *logger.Logger) time.Duration {
	raw := String(key, "", log)
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		if secs, convErr := strconv.Atoi(raw); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		if log != nil {
			log.Debug("Environment variable could not be parsed as duration, using default", "env_var", key, "providedVal", raw, "defaultVal", defaultVal, "error", err)
		}
		return defaultVal
	}
	return d
}

// List splits a comma separated variable, dropping empty entries.
func List(key string, defaultVal []string, log *logger.Logger) []string {
	raw := String(key, "", log)
	if raw == "" {
		return defaultVal
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
