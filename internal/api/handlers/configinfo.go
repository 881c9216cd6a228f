package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chickeye-backend-go/internal/config"
)

type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

type ClassConfigResponse struct {
	Names  []string `json:"names"`
	Colors []string `json:"colors"`
}

// GetConfig returns the class metadata the frontend needs to label and
// color detections consistently with the stream annotations.
// @Summary Class configuration
// @Description Get configured class names and hex colors
// @Tags config
// @Produce json
// @Success 200 {object} ClassConfigResponse
// @Router /config [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ClassConfigResponse{
		Names:  h.cfg.ClassNames,
		Colors: h.cfg.ClassColors,
	})
}
