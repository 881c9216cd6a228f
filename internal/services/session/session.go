// Package session drives the per-connection streaming pipeline: acquire a
// frame, call the detection provider, stabilize, render, encode, send.
package session

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"chickeye-backend-go/internal/models"
	"chickeye-backend-go/internal/services/encode"
	"chickeye-backend-go/internal/services/render"
	"chickeye-backend-go/internal/services/stability"
)

// FrameSource supplies frames for one session. The handle is exclusively
// owned by its session and released exactly once when the session ends.
type FrameSource interface {
	Read(dst *gocv.Mat) bool
	SeekStart()
	Close() error
}

// OpenFunc opens the session's frame source. Called once per session.
type OpenFunc func() (FrameSource, error)

// Provider is the external inference boundary. It receives a JPEG-encoded
// frame and returns raw, unsmoothed detections.
type Provider interface {
	Detect(ctx context.Context, image []byte) ([]models.Detection, error)
}

// Sink delivers stream messages to the connected client. Send blocks until
// the transport accepts the message, which bounds in-flight frames to one.
type Sink interface {
	Send(msg *models.StreamMessage) error
	SendError(msg string) error
}

// Publisher fans detection events out to interested subscribers. Optional.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Config is the immutable per-session configuration, snapshotted when the
// client connects. Reconnecting picks up changes; a running session never
// does.
type Config struct {
	VideoSource       string
	ClassNames        []string
	ClassColors       []color.RGBA
	ModelTimeout      time.Duration
	ReadRetryDelay    time.Duration
	FrameYield        time.Duration
	DetectionsSubject string
}

// Session owns one client connection's pipeline: one frame source, one set
// of class histories, one renderer and encoder. Sessions share nothing, so
// concurrent clients need no coordination.
type Session struct {
	cfg       Config
	open      OpenFunc
	provider  Provider
	sink      Sink
	publisher Publisher

	filter   *stability.Filter
	renderer *render.Renderer
	encoder  *encode.Encoder
}

func New(cfg Config, open OpenFunc, provider Provider, sink Sink, encoder *encode.Encoder, publisher Publisher) *Session {
	return &Session{
		cfg:       cfg,
		open:      open,
		provider:  provider,
		sink:      sink,
		publisher: publisher,
		filter:    stability.NewFilter(len(cfg.ClassNames)),
		renderer:  render.New(cfg.ClassNames, cfg.ClassColors),
		encoder:   encoder,
	}
}

// Run executes the session until the context is cancelled, the client
// disconnects, or an unhandled failure occurs. The frame source is released
// on every exit path.
func (s *Session) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("source", s.cfg.VideoSource).Msg("Session terminated by unhandled failure")
		}
	}()

	log.Info().Str("source", s.cfg.VideoSource).Msg("Opening video source")
	source, err := s.open()
	if err != nil {
		log.Error().Err(err).Str("source", s.cfg.VideoSource).Msg("Cannot open video source")
		if sendErr := s.sink.SendError(fmt.Sprintf("Cannot open video source: %s", s.cfg.VideoSource)); sendErr != nil {
			log.Debug().Err(sendErr).Msg("Failed to deliver open-failure message")
		}
		return
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Warn().Err(err).Str("source", s.cfg.VideoSource).Msg("Failed to close video source")
		}
	}()

	s.stream(ctx, source)
}

func (s *Session) stream(ctx context.Context, source FrameSource) {
	frame := gocv.NewMat()
	defer frame.Close()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("source", s.cfg.VideoSource).Msg("Session cancelled")
			return
		default:
		}

		if !source.Read(&frame) || frame.Empty() {
			// End of clip or a transient device glitch: rewind so
			// file-backed sources loop, back off, and retry. No history
			// update and no message for this iteration.
			source.SeekStart()
			if !sleep(ctx, s.cfg.ReadRetryDelay) {
				return
			}
			continue
		}

		stable := s.filter.Apply(s.detect(ctx, frame))

		annotated := frame.Clone()
		payload, err := func() (string, error) {
			defer annotated.Close()
			s.renderer.Draw(&annotated, stable)
			return s.encoder.EncodeFrame(annotated)
		}()
		if err != nil {
			log.Warn().Err(err).Str("source", s.cfg.VideoSource).Msg("Failed to render/encode frame, skipping")
			continue
		}

		timestamp := float64(time.Now().UnixNano()) / float64(time.Millisecond)
		msg := &models.StreamMessage{
			Frame:      payload,
			Detections: stable,
			Timestamp:  timestamp,
		}
		if err := s.sink.Send(msg); err != nil {
			log.Info().Err(err).Str("source", s.cfg.VideoSource).Msg("Client gone, closing session")
			return
		}

		s.publishDetections(stable, timestamp)

		if !sleep(ctx, s.cfg.FrameYield) {
			return
		}
	}
}

// detect calls the provider with a bounded timeout. Every failure mode
// degrades to an empty detection list so the stream keeps flowing; the
// histories are updated only from the post-call result, never partially.
func (s *Session) detect(ctx context.Context, frame gocv.Mat) []models.Detection {
	image, err := encode.JPEG(frame, encode.ProviderQuality)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode frame for detection provider")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()

	detections, err := s.provider.Detect(callCtx, image)
	if err != nil {
		log.Warn().Err(err).Msg("Detection provider call failed, continuing without detections")
		return nil
	}
	return detections
}

func (s *Session) publishDetections(detections []models.Detection, timestamp float64) {
	if s.publisher == nil || len(detections) == 0 {
		return
	}
	event := models.DetectionEvent{
		Source:     s.cfg.VideoSource,
		Detections: detections,
		Timestamp:  timestamp,
	}
	if err := s.publisher.Publish(s.cfg.DetectionsSubject, event); err != nil {
		log.Warn().Err(err).Str("subject", s.cfg.DetectionsSubject).Msg("Failed to publish detection event")
	}
}

// sleep waits for d or the context, reporting false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
