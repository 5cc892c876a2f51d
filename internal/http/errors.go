package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boardroomlabs/boardroomd/internal/chat"
	"github.com/boardroomlabs/boardroomd/internal/document"
	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/strategy"
)

// mapStoreError converts service and store errors into HTTP errors.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	case errors.Is(err, store.ErrDuplicateEdge):
		return echo.NewHTTPError(http.StatusConflict, "edge already exists")
	case errors.Is(err, store.ErrSelfLoop):
		return echo.NewHTTPError(http.StatusBadRequest, "edge cannot connect a node to itself")
	case errors.Is(err, store.ErrCrossWorkspace):
		return echo.NewHTTPError(http.StatusBadRequest, "edge endpoints must belong to the workspace")
	case errors.Is(err, chat.ErrEmptyMessage):
		return echo.NewHTTPError(http.StatusBadRequest, "message content is required")
	case errors.Is(err, chat.ErrUnsupportedProvider):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, strategy.ErrEmptyCanvas):
		return echo.NewHTTPError(http.StatusBadRequest, "workspace canvas has no nodes")
	case errors.Is(err, document.ErrUnsupportedType):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "only text documents are supported")
	case errors.Is(err, document.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "document exceeds the size limit")
	case errors.Is(err, document.ErrEmptyDocument):
		return echo.NewHTTPError(http.StatusBadRequest, "document contains no text")
	default:
		return err
	}
}
