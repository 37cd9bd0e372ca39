package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"qazaq-scraper/pkg/models"
)

// ErrReadProducts is the body sent whenever the snapshot cannot be served.
const ErrReadProducts = "Failed to read products data"

// SnapshotReader loads the most recently persisted products.
type SnapshotReader interface {
	Load() ([]models.Product, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	store  SnapshotReader
	logger *log.Logger
}

func NewHandler(store SnapshotReader, logger *log.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// ListProducts returns the stored snapshot as-is. It never triggers a fetch.
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.store.Load()
	if err != nil {
		h.logger.Error("could not load snapshot", "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrReadProducts})
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
