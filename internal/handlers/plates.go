package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/casadocarlos/matriculas/internal/models"
	"github.com/casadocarlos/matriculas/internal/services"
	pkghttp "github.com/casadocarlos/matriculas/pkg/http"
	"github.com/go-chi/chi/v5"
)

// PlateServiceInterface defines the interface for plate business logic
type PlateServiceInterface interface {
	List(ctx context.Context) ([]*models.Plate, error)
	Create(ctx context.Context, input services.PlateInput) (*models.Plate, error)
	Update(ctx context.Context, oldID string, input services.PlateInput) (*models.Plate, error)
	Delete(ctx context.Context, id string) error
	MarkSeen(ctx context.Context, id string, lat, lon models.Coordinate) (*models.Plate, error)
	History(ctx context.Context, id string) ([]*models.SeenEvent, error)
}

// PlateHandler handles plate-related HTTP requests
type PlateHandler struct {
	service PlateServiceInterface
}

// NewPlateHandler creates a new PlateHandler
func NewPlateHandler(service PlateServiceInterface) *PlateHandler {
	return &PlateHandler{service: service}
}

// PlateRequest is the body for create and update.
type PlateRequest struct {
	ID        string            `json:"id" validate:"required"`
	Contexto  string            `json:"contexto"`
	Cor       string            `json:"cor"`
	Latitude  models.Coordinate `json:"latitude"`
	Longitude models.Coordinate `json:"longitude"`
}

// SeenRequest is the body for mark-as-seen. Both fields are optional.
type SeenRequest struct {
	Latitude  models.Coordinate `json:"latitude"`
	Longitude models.Coordinate `json:"longitude"`
}

func (req PlateRequest) toInput() services.PlateInput {
	return services.PlateInput{
		ID:        req.ID,
		Contexto:  req.Contexto,
		Cor:       req.Cor,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}

// decodeBody decodes a JSON body, treating an empty body as the zero value
// so requests without a payload behave like requests with an empty one.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writePlateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Matrícula não encontrada")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Matrícula já existe")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Pedido inválido")
	default:
		pkghttp.WriteInternalError(w, "Erro no servidor")
	}
}

// List handles GET /matriculas
func (h *PlateHandler) List(w http.ResponseWriter, r *http.Request) {
	plates, err := h.service.List(r.Context())
	if err != nil {
		writePlateError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, plates)
}

// Create handles POST /matriculas
func (h *PlateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PlateRequest
	if err := decodeBody(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Pedido inválido")
		return
	}

	if req.ID == "" {
		pkghttp.WriteBadRequest(w, "O campo matrícula é obrigatório")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	plate, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		writePlateError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, plate)
}

// Update handles PUT /matriculas/{id}
func (h *PlateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req PlateRequest
	if err := decodeBody(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Pedido inválido")
		return
	}

	if req.ID == "" {
		pkghttp.WriteBadRequest(w, "O campo matrícula é obrigatório")
		return
	}

	plate, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writePlateError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, plate)
}

// Delete handles DELETE /matriculas/{id}
func (h *PlateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writePlateError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Matrícula apagada com sucesso"})
}

// MarkSeen handles PUT /matriculas/{id}/visto
func (h *PlateHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	var req SeenRequest
	if err := decodeBody(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Pedido inválido")
		return
	}

	plate, err := h.service.MarkSeen(r.Context(), chi.URLParam(r, "id"), req.Latitude, req.Longitude)
	if err != nil {
		writePlateError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, plate)
}

// History handles GET /matriculas/{id}/historico
func (h *PlateHandler) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writePlateError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, events)
}
