package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chickeye-backend-go/internal/config"
)

type RecordingHandler struct {
	cfg *config.Config
}

func NewRecordingHandler(cfg *config.Config) *RecordingHandler {
	return &RecordingHandler{cfg: cfg}
}

type SaveVideoResponse struct {
	Message string `json:"message" example:"Saved"`
	Path    string `json:"path"`
}

// SaveVideo persists an uploaded recording under the configured path.
// @Summary Save a recorded video
// @Description Upload a client-side recording and store it on disk
// @Tags recordings
// @Accept mpfd
// @Produce json
// @Param file formData file true "Recording file"
// @Success 200 {object} SaveVideoResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /save-video [post]
func (h *RecordingHandler) SaveVideo(c *gin.Context) {
	if h.cfg.RecordingPath == "" {
		c.JSON(http.StatusOK, gin.H{"error": "RECORDING_PATH not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if err := os.MkdirAll(h.cfg.RecordingPath, 0o755); err != nil {
		log.Error().Err(err).Str("path", h.cfg.RecordingPath).Msg("Failed to create recording directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recording directory"})
		return
	}

	name := fmt.Sprintf("recording_%s.webm", time.Now().Format("20060102_150405"))
	path := filepath.Join(h.cfg.RecordingPath, name)

	if err := c.SaveUploadedFile(file, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to save recording")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recording"})
		return
	}

	log.Info().Str("path", path).Int64("size", file.Size).Msg("Recording saved")
	c.JSON(http.StatusOK, SaveVideoResponse{Message: "Saved", Path: path})
}
