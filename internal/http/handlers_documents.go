package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/vectorstore"
)

// defaultSearchK is the result count for document search when none is given.
const defaultSearchK = 5

func (s *Server) handleUploadDocument(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field 'file' is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}

	doc, err := s.documents.Ingest(c.Request().Context(), ws.ID,
		fileHeader.Filename, fileHeader.Header.Get(echo.HeaderContentType), data)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	docs, err := s.documents.List(c.Request().Context(), ws.ID)
	if err != nil {
		return mapStoreError(err)
	}
	if docs == nil {
		docs = []store.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

func (s *Server) handleSearchDocuments(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'q' is required")
	}
	k := defaultSearchK
	if raw := c.QueryParam("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'k' must be a positive integer")
		}
		k = parsed
	}

	results, err := s.documents.Search(c.Request().Context(), ws.ID, query, k)
	if err != nil {
		return mapStoreError(err)
	}
	if results == nil {
		results = []vectorstore.SearchResult{}
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleDeleteDocument(c echo.Context) error {
	ws, err := s.requireWorkspace(c)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(c.Request().Context(), ws.ID, c.Param("docID")); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
