package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"eventpin/middleware"
	"eventpin/services"
	"eventpin/utils/errors"
)

type PinHandler struct {
	pinService *services.PinService
}

func NewPinHandler(pinService *services.PinService) *PinHandler {
	return &PinHandler{pinService: pinService}
}

// GetPins lists pins visible to ?username=; without the parameter every pin
// is returned.
func (h *PinHandler) GetPins(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	pins, err := h.pinService.ListVisibleTo(r.Context(), username)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pins)
}

func (h *PinHandler) CreatePin(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input services.CreatePinInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	pin, err := h.pinService.Create(r.Context(), owner, input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, pin)
}

func (h *PinHandler) GetPin(w http.ResponseWriter, r *http.Request) {
	pin, err := h.pinService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pin)
}

func (h *PinHandler) DeletePin(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	pin, err := h.pinService.Delete(r.Context(), mux.Vars(r)["id"], requester)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pin)
}

func (h *PinHandler) AddAssistant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := principal(r, vars["username"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	pin, err := h.pinService.Join(r.Context(), vars["id"], vars["username"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pin)
}

func (h *PinHandler) RemoveAssistant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := principal(r, vars["username"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	pin, err := h.pinService.Leave(r.Context(), vars["id"], vars["username"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pin)
}

func (h *PinHandler) PatchTitle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title string `json:"title"`
	}
	h.applyPatch(w, r, &input, func(id, requester string) (any, error) {
		return h.pinService.SetTitle(r.Context(), id, requester, input.Title)
	})
}

func (h *PinHandler) PatchLocation(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Location string `json:"location"`
	}
	h.applyPatch(w, r, &input, func(id, requester string) (any, error) {
		return h.pinService.SetLocation(r.Context(), id, requester, input.Location)
	})
}

func (h *PinHandler) PatchDescription(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Description string `json:"description"`
	}
	h.applyPatch(w, r, &input, func(id, requester string) (any, error) {
		return h.pinService.SetDescription(r.Context(), id, requester, input.Description)
	})
}

func (h *PinHandler) PatchDate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Date time.Time `json:"date"`
	}
	h.applyPatch(w, r, &input, func(id, requester string) (any, error) {
		return h.pinService.SetDate(r.Context(), id, requester, input.Date)
	})
}

func (h *PinHandler) applyPatch(w http.ResponseWriter, r *http.Request, input any, call func(id, requester string) (any, error)) {
	requester, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	pin, err := call(mux.Vars(r)["id"], requester)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, pin)
}
