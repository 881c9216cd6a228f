// Package logging configures the global zerolog logger, optionally teeing
// output into an embedded Logdy web viewer.
package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chickeye-backend-go/internal/config"
)

// Setup applies the configured log level and writers to the global logger.
// A bad level or a Logdy startup failure degrades to plain console logging.
func Setup(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = log.Output(console)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.LogdyEnabled {
		return
	}

	viewer := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: strconv.Itoa(cfg.LogdyPort),
	}, nil)

	log.Logger = log.Output(zerolog.MultiLevelWriter(console, &viewerWriter{viewer: viewer}))
	log.Info().
		Str("url", fmt.Sprintf("http://%s:%d", cfg.LogdyHost, cfg.LogdyPort)).
		Msg("Log forwarding to Logdy enabled")
}

// viewerWriter adapts the Logdy line API to io.Writer so zerolog can tee
// into it.
type viewerWriter struct {
	viewer logdy.Logdy
}

func (w *viewerWriter) Write(p []byte) (int, error) {
	w.viewer.LogString(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
