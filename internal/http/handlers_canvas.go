package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boardroomlabs/boardroomd/internal/store"
)

// NodeRequest is the request body for creating or updating a canvas node.
type NodeRequest struct {
	Kind    string  `json:"kind"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	PosX    float64 `json:"pos_x"`
	PosY    float64 `json:"pos_y"`
}

// EdgeRequest is the request body for creating an edge.
type EdgeRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Kind     string `json:"kind"`
}

func (s *Server) validateNodeRequest(req NodeRequest) error {
	if !store.ValidNodeKind(req.Kind) {
		return echo.NewHTTPError(http.StatusBadRequest,
			"kind must be one of: idea, question, insight, decision, risk")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}

func (s *Server) handleCreateNode(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	var req NodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validateNodeRequest(req); err != nil {
		return err
	}

	node, err := s.store.CreateNode(c.Request().Context(), ws.ID, req.Kind, req.Title, req.Content, req.PosX, req.PosY)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, node)
}

func (s *Server) handleListNodes(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	nodes, err := s.store.ListNodes(c.Request().Context(), ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	if nodes == nil {
		nodes = []store.Node{}
	}
	return c.JSON(http.StatusOK, nodes)
}

func (s *Server) handleUpdateNode(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	var req NodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validateNodeRequest(req); err != nil {
		return err
	}

	node, err := s.store.UpdateNode(c.Request().Context(), ws.ID, c.Param("nodeID"),
		req.Kind, req.Title, req.Content, req.PosX, req.PosY)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, node)
}

func (s *Server) handleDeleteNode(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNode(c.Request().Context(), ws.ID, c.Param("nodeID")); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CanvasResponse is the full canvas of a workspace in one fetch.
type CanvasResponse struct {
	Nodes []store.Node `json:"nodes"`
	Edges []store.Edge `json:"edges"`
}

func (s *Server) handleGetCanvas(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	nodes, err := s.store.ListNodes(ctx, ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	edges, err := s.store.ListEdges(ctx, ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	if nodes == nil {
		nodes = []store.Node{}
	}
	if edges == nil {
		edges = []store.Edge{}
	}
	return c.JSON(http.StatusOK, CanvasResponse{Nodes: nodes, Edges: edges})
}

func (s *Server) handleCreateEdge(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	var req EdgeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !store.ValidEdgeKind(req.Kind) {
		return echo.NewHTTPError(http.StatusBadRequest,
			"kind must be one of: relates, supports, contradicts, depends")
	}
	if req.SourceID == "" || req.TargetID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "source_id and target_id are required")
	}

	edge, err := s.store.CreateEdge(c.Request().Context(), ws.ID, req.SourceID, req.TargetID, req.Kind)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, edge)
}

func (s *Server) handleListEdges(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	edges, err := s.store.ListEdges(c.Request().Context(), ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	if edges == nil {
		edges = []store.Edge{}
	}
	return c.JSON(http.StatusOK, edges)
}

func (s *Server) handleDeleteEdge(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEdge(c.Request().Context(), ws.ID, c.Param("edgeID")); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
