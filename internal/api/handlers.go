package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/autoji/autoji/internal/browser"
	"github.com/autoji/autoji/internal/emoji"
	"github.com/autoji/autoji/internal/exporter"
	"github.com/autoji/autoji/internal/extractor"
	"github.com/autoji/autoji/internal/models"
	"github.com/autoji/autoji/internal/settings"
	"github.com/autoji/autoji/internal/storage"
)

// Error codes returned by the extract endpoint.
const (
	CodeNotProductPage    = "not_product_page"
	CodeMissingIdentifier = "missing_identifier"
	CodeFetchFailed       = "fetch_failed"
	CodeInvalidRequest    = "invalid_request"
)

type Handlers struct {
	store     storage.ProductStore
	extractor *extractor.Extractor
	emoji     *emoji.Service
	settings  settings.Store
	fetcher   browser.Fetcher
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandlers wires the API. fetcher may be nil, in which case extraction
// by URL is rejected.
func NewHandlers(
	store storage.ProductStore,
	ext *extractor.Extractor,
	emojiSvc *emoji.Service,
	settingsStore settings.Store,
	fetcher browser.Fetcher,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		store:     store,
		extractor: ext,
		emoji:     emojiSvc,
		settings:  settingsStore,
		fetcher:   fetcher,
		logger:    logger.With("component", "api"),
		now:       time.Now,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EmojiRequest is the body of POST /api/emoji. The API key is optional
// when one has been saved previously; a provided key is saved for later
// requests.
type EmojiRequest struct {
	Text   string `json:"text"`
	APIKey string `json:"apiKey"`
}

type EmojiResponse struct {
	Emoji     string `json:"emoji"`
	RequestID string `json:"requestId,omitempty"`
}

func (h *Handlers) SuggestEmoji(w http.ResponseWriter, r *http.Request) {
	var req EmojiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()

	apiKey := req.APIKey
	if apiKey == "" {
		stored, err := h.settings.APIKey(ctx)
		if err != nil {
			h.logger.Error("failed to read stored API key", "error", err)
		} else {
			apiKey = stored
		}
	} else if err := h.settings.SetAPIKey(ctx, apiKey); err != nil {
		h.logger.Error("failed to save API key", "error", err)
	}

	tracked, err := h.settings.CreateEmojiRequest(ctx)
	if err != nil {
		h.logger.Error("failed to track emoji request", "error", err)
	}

	suggestion, err := h.emoji.Suggest(ctx, req.Text, apiKey)
	if err != nil {
		if tracked != nil {
			if trackErr := h.settings.FailEmojiRequest(ctx, tracked.ID, err.Error()); trackErr != nil {
				h.logger.Error("failed to record emoji failure", "error", trackErr)
			}
		}
		status := http.StatusInternalServerError
		if errors.Is(err, emoji.ErrEmptyText) ||
			errors.Is(err, emoji.ErrTextTooLong) ||
			errors.Is(err, emoji.ErrMissingAPIKey) {
			status = http.StatusBadRequest
		}
		h.respondError(w, status, err.Error())
		return
	}

	resp := EmojiResponse{Emoji: suggestion}
	if tracked != nil {
		resp.RequestID = tracked.ID
		if trackErr := h.settings.CompleteEmojiRequest(ctx, tracked.ID, suggestion); trackErr != nil {
			h.logger.Error("failed to record emoji result", "error", trackErr)
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// GetEmojiRequest reports the status of a previous suggestion, for clients
// that poll instead of waiting on the POST.
func (h *Handlers) GetEmojiRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestID")

	req, err := h.settings.GetEmojiRequest(r.Context(), id)
	if err != nil {
		if errors.Is(err, settings.ErrRequestNotFound) {
			h.respondError(w, http.StatusNotFound, "request not found")
			return
		}
		h.logger.Error("failed to load emoji request", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to load request")
		return
	}

	h.respondJSON(w, http.StatusOK, req)
}

// ExtractRequest is the body of POST /api/v1/extract. When both html and
// url are set the html wins and the url only provides page context.
type ExtractRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

func (h *Handlers) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondExtractError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}

	html := req.HTML
	if html == "" {
		if req.URL == "" {
			h.respondExtractError(w, http.StatusBadRequest, CodeInvalidRequest, "either html or url is required")
			return
		}
		if h.fetcher == nil {
			h.respondExtractError(w, http.StatusBadRequest, CodeInvalidRequest, "extraction by url requires the browser to be enabled")
			return
		}

		fetched, err := h.fetcher.FetchHTML(r.Context(), req.URL)
		if err != nil {
			h.logger.Error("failed to fetch page", "error", err, "url", req.URL)
			h.respondExtractError(w, http.StatusBadGateway, CodeFetchFailed, "failed to fetch page")
			return
		}
		html = fetched
	}

	product, err := h.extractor.ExtractFromHTML(html, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrNotProductPage):
			h.respondExtractError(w, http.StatusUnprocessableEntity, CodeNotProductPage, err.Error())
		case errors.Is(err, extractor.ErrMissingASIN):
			h.respondExtractError(w, http.StatusUnprocessableEntity, CodeMissingIdentifier, err.Error())
		default:
			h.logger.Error("extraction failed", "error", err)
			h.respondExtractError(w, http.StatusInternalServerError, CodeInvalidRequest, "extraction failed")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

type SaveProductResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handlers) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.respondJSON(w, http.StatusBadRequest, SaveProductResponse{Success: false, Error: "invalid request body"})
		return
	}

	count, err := h.store.Add(r.Context(), &product)
	if err != nil {
		if errors.Is(err, storage.ErrMissingASIN) {
			h.respondJSON(w, http.StatusBadRequest, SaveProductResponse{Success: false, Error: err.Error()})
			return
		}
		h.logger.Error("failed to save product", "error", err, "asin", product.ASIN)
		h.respondJSON(w, http.StatusInternalServerError, SaveProductResponse{Success: false, Error: "failed to save product"})
		return
	}

	h.respondJSON(w, http.StatusOK, SaveProductResponse{Success: true, Count: count})
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	h.respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")

	if err := h.store.Remove(r.Context(), asin); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to remove product", "error", err, "asin", asin)
		h.respondError(w, http.StatusInternalServerError, "failed to remove product")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) ClearProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear products", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to clear products")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

const exportPrefix = "amazon-products"

func (h *Handlers) ExportProducts(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		h.respondError(w, http.StatusBadRequest, "format must be csv or json")
		return
	}

	products, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products for export", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to export products")
		return
	}

	var payload []byte
	contentType := "text/csv"
	if format == "json" {
		payload, err = exporter.ToJSON(products)
		if err != nil {
			h.logger.Error("failed to render JSON export", "error", err)
			h.respondError(w, http.StatusInternalServerError, "failed to export products")
			return
		}
		contentType = "application/json"
	} else {
		payload = []byte(exporter.ToCSV(products))
	}

	filename := exporter.Filename(exportPrefix, format, h.now())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *Handlers) respondExtractError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, map[string]string{"error": message, "code": code})
}
