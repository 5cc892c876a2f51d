package http

import (
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/boardroomlabs/boardroomd/internal/auth"
	"github.com/boardroomlabs/boardroomd/internal/store"
)

// WorkspaceRequest is the request body for creating or updating a workspace.
type WorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

const maxWorkspaceNameLen = 200

func validateWorkspaceRequest(req WorkspaceRequest) error {
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if utf8.RuneCountInString(req.Name) > maxWorkspaceNameLen {
		return echo.NewHTTPError(http.StatusBadRequest, "name must be 200 characters or fewer")
	}
	return nil
}

func (s *Server) handleCreateWorkspace(c echo.Context) error {
	var req WorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateWorkspaceRequest(req); err != nil {
		return err
	}

	ws, err := s.store.CreateWorkspace(c.Request().Context(), auth.UserID(c), req.Name, req.Description)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, ws)
}

func (s *Server) handleListWorkspaces(c echo.Context) error {
	list, err := s.store.ListWorkspaces(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return mapStoreError(err)
	}
	if list == nil {
		list = []store.Workspace{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetWorkspace(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws)
}

func (s *Server) handleUpdateWorkspace(c echo.Context) error {
	var req WorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateWorkspaceRequest(req); err != nil {
		return err
	}

	ws, err := s.store.UpdateWorkspace(c.Request().Context(), c.Param("id"), auth.UserID(c), req.Name, req.Description)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, ws)
}

func (s *Server) handleDeleteWorkspace(c echo.Context) error {
	ctx := c.Request().Context()
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteWorkspace(ctx, ws.ID, auth.UserID(c)); err != nil {
		return mapStoreError(err)
	}
	// Indexed document chunks go with the workspace.
	if s.documents != nil {
		if err := s.documents.DeleteWorkspaceChunks(ctx, ws.ID); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}
