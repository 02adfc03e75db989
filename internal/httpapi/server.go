package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mapbuilder/internal/config"
	"mapbuilder/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	Ready() bool
	Replace(ctx context.Context, doc types.MapDocument) error
	Destroy() error
	SetLayerVisibility(id string, visible bool) error
	SetLayerOpacity(id string, opacity float64) error
	UpdateSource(id string, data any) error
	RemoveImages(ids []string) error
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Get("/status", h.status)
	r.Put("/map", h.replaceMap)
	r.Delete("/map", h.destroyMap)
	r.Put("/layers/{id}/visibility", h.layerVisibility)
	r.Put("/layers/{id}/opacity", h.layerOpacity)
	r.Put("/sources/{id}/data", h.sourceData)
	r.Delete("/images", h.removeImages)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz godoc
// @Summary Readiness
// @Description 200 once the active map finished its style setup, 503 otherwise.
// @Tags health
// @Produce plain
// @Success 200 {string} string "ready"
// @Failure 503 {string} string "not ready"
// @Router /readyz [get]
func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if h.svc.Ready() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}

// status godoc
// @Summary Map status
// @Tags map
// @Produce json
// @Success 200 {object} types.StatusResponse
// @Router /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// replaceMap godoc
// @Summary Replace the map
// @Description Destroys the active map and initializes the document. The body may be JSON, YAML or TOML.
// @Tags map
// @Accept json
// @Accept x-yaml
// @Produce json
// @Param document body types.MapDocument true "Map document"
// @Success 200 {object} types.StatusResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 415 {object} types.ErrorResponse
// @Failure 422 {object} types.ErrorResponse
// @Router /map [put]
func (h *handlers) replaceMap(w http.ResponseWriter, r *http.Request) {
	format, ok := documentFormat(r.Header.Get("Content-Type"))
	if !ok {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be JSON, YAML or TOML")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	doc, err := config.ParseDocument(body, format)
	if err != nil {
		mapReplacementsTotal.WithLabelValues(format, "parse_error").Inc()
		writeJSONError(w, http.StatusBadRequest, "invalid "+format+" body: "+err.Error())
		return
	}

	// Shutdown cancels the initialization as well as a client disconnect.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if err := h.svc.Replace(ctx, doc); err != nil {
		mapReplacementsTotal.WithLabelValues(format, "error").Inc()
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		writeError(w, err)
		return
	}
	mapReplacementsTotal.WithLabelValues(format, "ok").Inc()
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// destroyMap godoc
// @Summary Destroy the map
// @Tags map
// @Success 204
// @Failure 409 {object} types.ErrorResponse
// @Router /map [delete]
func (h *handlers) destroyMap(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Destroy(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layerVisibility godoc
// @Summary Show or hide a layer
// @Tags layers
// @Accept json
// @Param id path string true "Layer id"
// @Param body body types.VisibilityRequest true "Visibility"
// @Success 204
// @Failure 409 {object} types.ErrorResponse
// @Router /layers/{id}/visibility [put]
func (h *handlers) layerVisibility(w http.ResponseWriter, r *http.Request) {
	var req types.VisibilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.SetLayerVisibility(chi.URLParam(r, "id"), req.Visible); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layerOpacity godoc
// @Summary Set a layer's opacity
// @Description Layer types without an opacity paint property are left unchanged.
// @Tags layers
// @Accept json
// @Param id path string true "Layer id"
// @Param body body types.OpacityRequest true "Opacity in [0,1]"
// @Success 204
// @Failure 400 {object} types.ErrorResponse
// @Router /layers/{id}/opacity [put]
func (h *handlers) layerOpacity(w http.ResponseWriter, r *http.Request) {
	var req types.OpacityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Opacity < 0 || req.Opacity > 1 {
		writeJSONError(w, http.StatusBadRequest, "opacity must be between 0 and 1")
		return
	}
	if err := h.svc.SetLayerOpacity(chi.URLParam(r, "id"), req.Opacity); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sourceData godoc
// @Summary Replace a GeoJSON source's data
// @Tags sources
// @Accept json
// @Param id path string true "Source id"
// @Param body body object true "GeoJSON"
// @Success 204
// @Failure 400 {object} types.ErrorResponse
// @Router /sources/{id}/data [put]
func (h *handlers) sourceData(w http.ResponseWriter, r *http.Request) {
	var data any
	if !decodeJSON(w, r, &data) {
		return
	}
	if err := h.svc.UpdateSource(chi.URLParam(r, "id"), data); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// removeImages godoc
// @Summary Remove images
// @Description An empty id list removes every configured image.
// @Tags images
// @Accept json
// @Param body body types.RemoveImagesRequest false "Image ids"
// @Success 204
// @Router /images [delete]
func (h *handlers) removeImages(w http.ResponseWriter, r *http.Request) {
	var req types.RemoveImagesRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	if err := h.svc.RemoveImages(req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// documentFormat maps a request Content-Type to a document format. An empty
// header means JSON.
func documentFormat(ct string) (string, bool) {
	if ct == "" {
		return "json", true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", false
	}
	switch mt {
	case "application/json":
		return "json", true
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return "yaml", true
	case "application/toml", "text/toml":
		return "toml", true
	default:
		return "", false
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
