package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"chickeye-backend-go/internal/config"
	"chickeye-backend-go/internal/models"
	"chickeye-backend-go/internal/services/detector"
	"chickeye-backend-go/internal/services/encode"
	"chickeye-backend-go/internal/services/session"
)

type StreamHandler struct {
	cfg       *config.Config
	publisher session.Publisher
}

func NewStreamHandler(cfg *config.Config, publisher session.Publisher) *StreamHandler {
	return &StreamHandler{cfg: cfg, publisher: publisher}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser frontend may be served from anywhere, mirroring the
	// wide-open CORS policy on the HTTP routes.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSink adapts a websocket connection to the session's outbound transport.
// WriteJSON blocks until the kernel accepts the frame, which is the
// session's backpressure policy: block, never buffer unbounded frames.
type wsSink struct {
	conn *websocket.Conn
}

func (s *wsSink) Send(msg *models.StreamMessage) error {
	return s.conn.WriteJSON(msg)
}

func (s *wsSink) SendError(msg string) error {
	return s.conn.WriteJSON(models.ErrorMessage{Error: msg})
}

// VideoStream upgrades the connection and runs one streaming session until
// the client disconnects.
// @Summary Live annotated video stream
// @Description WebSocket endpoint streaming annotated frames plus detection metadata
// @Tags stream
// @Router /ws/video [get]
func (h *StreamHandler) VideoStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	// Session config is snapshotted per connection; reconnecting picks up
	// configuration changes, a running session never does.
	sessCfg := session.Config{
		VideoSource:       h.cfg.VideoSource,
		ClassNames:        h.cfg.ClassNames,
		ClassColors:       h.cfg.ClassPalette(),
		ModelTimeout:      h.cfg.ModelTimeout,
		ReadRetryDelay:    h.cfg.ReadRetryDelay,
		FrameYield:        h.cfg.FrameYield,
		DetectionsSubject: h.cfg.DetectionsSubject,
	}

	open := func() (session.FrameSource, error) {
		return session.OpenVideoSource(h.cfg.VideoSource)
	}
	provider := detector.NewClient(h.cfg.ModelEndpoint, h.cfg.Confidence, h.cfg.ModelTimeout)
	encoder := encode.New(h.cfg.StreamMaxWidth, h.cfg.StreamQuality)

	sess := session.New(sessCfg, open, provider, &wsSink{conn: conn}, encoder, h.publisher)

	// Reads are only used to notice the client going away; cancel the
	// session when the read loop ends.
	ctx, cancel := withClientWatch(c, conn)
	defer cancel()

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Stream session started")
	sess.Run(ctx)
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Stream session ended")
}
