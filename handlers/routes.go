package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventpin/middleware"
)

// NewRouter assembles the full REST surface. Reads are public; mutations on
// pins and relationships require a bearer token.
func NewRouter(auth *AuthHandler, users *UserHandler, friends *FriendHandler, pins *PinHandler, jwtSecret string, allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	api := r.PathPrefix("/api").Subrouter()
	protected := middleware.JWTMiddleware(jwtSecret)

	userRouter := api.PathPrefix("/users").Subrouter()
	userRouter.HandleFunc("/register", auth.RegisterUser).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/login", auth.LoginUser).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/refresh-token", auth.RefreshToken).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("", users.ListUsers).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/{username}", users.GetUserByUsername).Methods("GET", "OPTIONS")

	userRouter.HandleFunc("/{username}/friends", friends.GetFriendsList).Methods("GET", "OPTIONS")
	userRouter.Handle("/{username}/friends/request/{friendUsername}", protected(http.HandlerFunc(friends.SendFriendRequest))).Methods("POST", "OPTIONS")
	userRouter.Handle("/{username}/friends/accept/{friendUsername}", protected(http.HandlerFunc(friends.AcceptFriendRequest))).Methods("POST", "OPTIONS")
	userRouter.Handle("/{username}/friends/reject/{friendUsername}", protected(http.HandlerFunc(friends.RejectFriendRequest))).Methods("POST", "OPTIONS")
	userRouter.Handle("/{username}/friends/{friendUsername}", protected(http.HandlerFunc(friends.RemoveFriend))).Methods("DELETE", "OPTIONS")

	pinRouter := api.PathPrefix("/pins").Subrouter()
	pinRouter.HandleFunc("", pins.GetPins).Methods("GET", "OPTIONS")
	pinRouter.HandleFunc("/{id}", pins.GetPin).Methods("GET", "OPTIONS")
	pinRouter.Handle("", protected(http.HandlerFunc(pins.CreatePin))).Methods("POST", "OPTIONS")
	pinRouter.Handle("/{id}", protected(http.HandlerFunc(pins.DeletePin))).Methods("DELETE", "OPTIONS")
	pinRouter.Handle("/{id}/assistants/{username}", protected(http.HandlerFunc(pins.AddAssistant))).Methods("POST", "OPTIONS")
	pinRouter.Handle("/{id}/assistants/{username}", protected(http.HandlerFunc(pins.RemoveAssistant))).Methods("DELETE", "OPTIONS")
	pinRouter.Handle("/{id}/title", protected(http.HandlerFunc(pins.PatchTitle))).Methods("PATCH", "OPTIONS")
	pinRouter.Handle("/{id}/location", protected(http.HandlerFunc(pins.PatchLocation))).Methods("PATCH", "OPTIONS")
	pinRouter.Handle("/{id}/description", protected(http.HandlerFunc(pins.PatchDescription))).Methods("PATCH", "OPTIONS")
	pinRouter.Handle("/{id}/date", protected(http.HandlerFunc(pins.PatchDate))).Methods("PATCH", "OPTIONS")

	return r
}
