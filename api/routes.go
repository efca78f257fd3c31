package api

func (s *Server) registerRoutes() {
	e := s.echo
	e.GET("/health", s.health)

	e.GET("/properties", s.listProperties)
	e.POST("/properties", s.createProperty)
	e.GET("/properties/:id", s.getProperty)
	e.PUT("/properties/:id", s.updateProperty)
	e.DELETE("/properties/:id", s.deleteProperty)

	e.GET("/saved", s.listSaved)
	e.POST("/saved", s.saveProperty)
	e.PATCH("/saved/:id", s.updateNotes)
	e.DELETE("/saved/:id", s.deleteSaved)
	e.DELETE("/saved/property/:propertyId", s.unsaveProperty)

	e.POST("/sessions/:sid/query", s.sessionQuery)
	e.GET("/sessions/:sid/results", s.sessionResults)
	e.DELETE("/sessions/:sid", s.dropSession)
}
