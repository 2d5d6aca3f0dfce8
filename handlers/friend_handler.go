package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventpin/middleware"
	"eventpin/services"
	"eventpin/utils/errors"
)

type FriendHandler struct {
	friendService *services.FriendService
}

func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// principal checks that the authenticated user is acting on their own
// relationship set.
func principal(r *http.Request, username string) error {
	actor, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		return errors.ErrUnauthorized
	}
	if actor != username {
		return errors.NewAPIError("FORBIDDEN", "Cannot act on another user's relationships", http.StatusForbidden)
	}
	return nil
}

func (h *FriendHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := principal(r, vars["username"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.SendRequest(r.Context(), vars["username"], vars["friendUsername"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend request sent")
}

func (h *FriendHandler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := principal(r, vars["username"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.AcceptRequest(r.Context(), vars["username"], vars["friendUsername"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend request accepted")
}

func (h *FriendHandler) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := principal(r, vars["username"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.RejectRequest(r.Context(), vars["username"], vars["friendUsername"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend request rejected")
}

func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := principal(r, vars["username"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.RemoveFriend(r.Context(), vars["username"], vars["friendUsername"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend removed")
}

func (h *FriendHandler) GetFriendsList(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	friends, err := h.friendService.ListFriends(r.Context(), username)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, friends)
}
