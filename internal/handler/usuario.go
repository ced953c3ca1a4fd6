package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/usuarios-api/usuarios/internal/handler/dto"
	"github.com/usuarios-api/usuarios/internal/service"
)

const (
	msgNotFound         = "No encontrado"
	msgUsuarioEliminado = "Usuario eliminado"
)

// UsuarioHandler handles HTTP requests for usuario operations.
type UsuarioHandler struct {
	svc    *service.UsuarioService
	logger *slog.Logger
}

// NewUsuarioHandler creates a new UsuarioHandler.
func NewUsuarioHandler(svc *service.UsuarioService, logger *slog.Logger) *UsuarioHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsuarioHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes mounts the usuario endpoints on r.
func (h *UsuarioHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Create handles POST /api/usuario.
func (h *UsuarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeUsuarioRequest(r)
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}

	input := service.CreateUsuarioInput{Activo: req.Activo}
	if req.Nombre != nil {
		input.Nombre = *req.Nombre
	}
	if req.Email != nil {
		input.Email = *req.Email
	}
	if req.Password != nil {
		input.Password = *req.Password
	}

	u, err := h.svc.CreateUsuario(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("usuario_created", "usuario_id", u.ID)
	writeJSON(w, http.StatusCreated, u)
}

// List handles GET /api/usuario.
func (h *UsuarioHandler) List(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.svc.ListUsuarios(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usuarios)
}

// Get handles GET /api/usuario/{id}.
func (h *UsuarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUsuario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Update handles PUT /api/usuario/{id}.
func (h *UsuarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeUsuarioRequest(r)
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}

	u, err := h.svc.UpdateUsuario(r.Context(), service.UpdateUsuarioInput{
		ID:       chi.URLParam(r, "id"),
		Nombre:   req.Nombre,
		Email:    req.Email,
		Password: req.Password,
		Activo:   req.Activo,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("usuario_updated", "usuario_id", u.ID)
	writeJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /api/usuario/{id}.
func (h *UsuarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteUsuario(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("usuario_deleted", "usuario_id", id)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Mensaje: msgUsuarioEliminado})
}

// handleServiceError maps service errors to HTTP responses.
// Validation and uniqueness failures are reported as 500 with their message.
func (h *UsuarioHandler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrUsuarioNotFound) {
		h.writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	h.logger.Error("usuario_request_failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, err.Error())
}

func (h *UsuarioHandler) writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.writeError(w, http.StatusRequestEntityTooLarge, "request entity too large")
		return
	}
	h.writeError(w, http.StatusBadRequest, err.Error())
}

func (h *UsuarioHandler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

// decodeUsuarioRequest reads a JSON or URL-encoded body. An empty body
// decodes to an empty request.
func decodeUsuarioRequest(r *http.Request) (dto.UsuarioRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return dto.UsuarioRequest{}, err
		}
		return dto.UsuarioRequestFromForm(r.PostForm)
	}

	var req dto.UsuarioRequest
	if r.Body == nil {
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}
