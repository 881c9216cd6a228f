package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Port     int
	LogLevel string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Detection provider
	Confidence    float64
	ModelEndpoint string
	ModelTimeout  time.Duration

	// Session inputs
	VideoSource string
	ClassNames  []string
	ClassColors []string

	// Recording upload
	RecordingPath string

	// Stream output
	StreamMaxWidth int
	StreamQuality  int // JPEG quality (1-100)

	// Session loop pacing
	ReadRetryDelay time.Duration // backoff after a failed frame read
	FrameYield     time.Duration // scheduler yield between frames

	// NATS (optional detection-event fan-out)
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	DetectionsSubject  string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Port:     getEnvInt("PORT", 8000),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8081),

		// Detection provider
		Confidence:    getEnvFloat("CONFIDENCE", 0.6),
		ModelEndpoint: getEnv("MODEL_ENDPOINT", "http://localhost:8080/predict"),
		ModelTimeout:  getEnvDuration("MODEL_TIMEOUT", 10*time.Second),

		// Session inputs
		VideoSource: getEnv("VIDEO_SOURCE", "0"),
		ClassNames:  getEnvList("CLASS_NAMES", "Chicken 1,Chicken 2,Chicken 3,Chicken 4"),
		ClassColors: getEnvList("CLASS_COLORS", "#ef4444,#94a3b8,#3b82f6,#f59e0b"),

		// Recording upload
		RecordingPath: getEnv("RECORDING_PATH", ""),

		// Stream output
		StreamMaxWidth: getEnvInt("STREAM_MAX_WIDTH", 640),
		StreamQuality:  getEnvInt("STREAM_QUALITY", 60),

		// Session loop pacing
		ReadRetryDelay: getEnvDuration("READ_RETRY_DELAY", 100*time.Millisecond),
		FrameYield:     getEnvDuration("FRAME_YIELD", time.Millisecond),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		DetectionsSubject:  getEnv("DETECTIONS_SUBJECT", "chickeye.detections"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// ParseHexColor converts a "#rrggbb" string into an RGBA color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// ClassPalette resolves the configured hex colors, substituting white for any
// entry that fails to parse so the palette stays aligned with ClassNames.
func (c *Config) ClassPalette() []color.RGBA {
	palette := make([]color.RGBA, 0, len(c.ClassColors))
	for _, hex := range c.ClassColors {
		col, err := ParseHexColor(hex)
		if err != nil {
			log.Warn().Str("color", hex).Msg("Invalid class color, falling back to white")
			col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		palette = append(palette, col)
	}
	return palette
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
