package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boardroomlabs/boardroomd/internal/store"
)

func (s *Server) handleGenerateSummary(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	result, err := s.strategy.Generate(c.Request().Context(), ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (s *Server) handleListSummaries(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	list, err := s.strategy.List(c.Request().Context(), ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	if list == nil {
		list = []store.Summary{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetSummary(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	summary, err := s.strategy.Get(c.Request().Context(), ws.ID, c.Param("summaryID"))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
