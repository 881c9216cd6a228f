package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type StatusResponse struct {
	Status string `json:"status" example:"ChickEye backend running"`
}

// @Summary Backend status
// @Description Check that the backend is up
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ChickEye backend running"})
}

// @Summary Health check
// @Description Check if the backend is healthy and responsive
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "healthy"})
}
