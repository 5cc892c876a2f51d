package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boardroomlabs/boardroomd/internal/store"
)

// ConversationRequest is the request body for starting a conversation.
type ConversationRequest struct {
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// SendMessageRequest is the request body for sending a chat message.
type SendMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreateConversation(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	var req ConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	conv, err := s.chat.CreateConversation(c.Request().Context(), ws.ID, req.Title, req.Provider, req.Model)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, conv)
}

func (s *Server) handleListConversations(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	list, err := s.store.ListConversations(c.Request().Context(), ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	if list == nil {
		list = []store.Conversation{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleListMessages(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	conv, err := s.store.GetConversation(ctx, ws.ID, c.Param("convID"))
	if err != nil {
		return mapStoreError(err)
	}
	messages, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return mapStoreError(err)
	}
	if messages == nil {
		messages = []store.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

func (s *Server) handleSendMessage(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reply, err := s.chat.SendMessage(c.Request().Context(), ws.ID, c.Param("convID"), req.Content)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, reply)
}

func (s *Server) handleDeleteConversation(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteConversation(c.Request().Context(), ws.ID, c.Param("convID")); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
