package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.Root)
	s.router.GET("/health", s.healthHandler.HealthCheck)
	s.router.GET("/config", s.configHandler.GetConfig)
	s.router.POST("/save-video", s.recordingHandler.SaveVideo)
	s.router.GET("/ws/video", s.streamHandler.VideoStream)
}
