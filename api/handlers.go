package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"estate_browser/models"
	"estate_browser/query"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Properties
// =============================================================================

func (s *Server) listProperties(c echo.Context) error {
	params, err := query.ParseParams(c.QueryParams())
	if err != nil {
		return err
	}
	result, err := s.browse.Query(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) getProperty(c echo.Context) error {
	detail, err := s.browse.Details(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) createProperty(c echo.Context) error {
	var p models.Property
	if err := c.Bind(&p); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	created, err := s.browse.Properties().Create(c.Request().Context(), &p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateProperty(c echo.Context) error {
	var p models.Property
	if err := c.Bind(&p); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	updated, err := s.browse.Properties().Update(c.Request().Context(), c.Param("id"), &p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteProperty(c echo.Context) error {
	if err := s.browse.Properties().Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// =============================================================================
// Saved properties
// =============================================================================

type saveRequest struct {
	PropertyID string `json:"property_id"`
}

type notesRequest struct {
	Notes *string `json:"notes"`
}

func (s *Server) listSaved(c echo.Context) error {
	listings, err := s.browse.SavedListings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

func (s *Server) saveProperty(c echo.Context) error {
	var req saveRequest
	if err := c.Bind(&req); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	sp, err := s.browse.Save(c.Request().Context(), req.PropertyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sp)
}

func (s *Server) updateNotes(c echo.Context) error {
	var req notesRequest
	if err := c.Bind(&req); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	if req.Notes == nil {
		return &models.ValidationError{Field: "notes", Message: "is required"}
	}
	sp, err := s.browse.UpdateNote(c.Request().Context(), c.Param("id"), *req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (s *Server) deleteSaved(c echo.Context) error {
	if err := s.browse.Saved().Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) unsaveProperty(c echo.Context) error {
	if err := s.browse.Unsave(c.Request().Context(), c.Param("propertyId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// =============================================================================
// Sessions
// =============================================================================

type sessionResponse struct {
	Params query.Params `json:"params"`
	query.Result
}

func (s *Server) sessionQuery(c echo.Context) error {
	params := query.Params{Sort: models.DefaultSort}
	if err := c.Bind(&params); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	result, err := s.sessions.Get(c.Param("sid")).Query(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Params: params, Result: result})
}

func (s *Server) sessionResults(c echo.Context) error {
	sid := c.Param("sid")
	session := s.sessions.Lookup(sid)
	if session == nil {
		return fmt.Errorf("session %s: %w", sid, models.ErrNotFound)
	}
	result, params, ok := session.Current()
	if !ok {
		return fmt.Errorf("session %s has no results: %w", sid, models.ErrNotFound)
	}
	return c.JSON(http.StatusOK, sessionResponse{Params: params, Result: result})
}

func (s *Server) dropSession(c echo.Context) error {
	s.sessions.Drop(c.Param("sid"))
	return c.NoContent(http.StatusNoContent)
}
