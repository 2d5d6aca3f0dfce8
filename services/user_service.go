package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eventpin/models"
	"eventpin/repositories"
	"eventpin/utils/errors"
)

const userCacheTTL = 24 * time.Hour

type UserService struct {
	users      UserRepository
	sessions   SessionStore
	cache      Cache
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
}

func NewUserService(users UserRepository, sessions SessionStore, cache Cache, jwtSecret string, accessTTL, refreshTTL time.Duration) *UserService {
	return &UserService{
		users:      users,
		sessions:   sessions,
		cache:      cache,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new user
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.Profile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if len(username) < 3 || len(username) > 20 {
		return models.Profile{}, errors.NewAPIError("INVALID_INPUT", "Username must be between 3 and 20 characters", http.StatusBadRequest)
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.Profile{}, errors.NewAPIError("INVALID_INPUT", "A valid email is required", http.StatusBadRequest)
	}
	if len(password) < 6 {
		return models.Profile{}, errors.NewAPIError("INVALID_INPUT", "Password must be at least 6 characters", http.StatusBadRequest)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return models.Profile{}, errors.NewAPIError("CONFLICT", "Username already exists", http.StatusConflict)
	} else if err != repositories.ErrNotFound {
		return models.Profile{}, errors.Wrap(err, "DB_ERROR", "Failed to check username", http.StatusInternalServerError)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.Profile{}, errors.NewAPIError("CONFLICT", "Email already exists", http.StatusConflict)
	} else if err != repositories.ErrNotFound {
		return models.Profile{}, errors.Wrap(err, "DB_ERROR", "Failed to check email", http.StatusInternalServerError)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, errors.Wrap(err, "HASH_ERROR", "Failed to hash password", http.StatusInternalServerError)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:              username,
		Email:                 email,
		PasswordHash:          string(passwordHash),
		Friends:               []string{},
		SentFriendRequests:    []string{},
		PendingFriendRequests: []string{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	user, err = s.users.Insert(ctx, user)
	if err != nil {
		// Unique indexes back-stop the existence checks above against races.
		if err == repositories.ErrConflict {
			return models.Profile{}, errors.NewAPIError("CONFLICT", "Username or email already exists", http.StatusConflict)
		}
		return models.Profile{}, errors.Wrap(err, "DB_ERROR", "Failed to create user", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return user.Profile(), nil
}

// Login authenticates a username/password pair and issues a token pair.
func (s *UserService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err == repositories.ErrNotFound {
		return TokenPair{}, errors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	}
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "DB_ERROR", "Failed to look up user", http.StatusInternalServerError)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, errors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	}

	pair, err := s.issueTokens(ctx, user.Username)
	if err != nil {
		return TokenPair{}, err
	}

	s.cacheUser(ctx, user)
	return pair, nil
}

// Refresh rotates a refresh token and issues a fresh token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, errors.ErrUnauthorized
	}
	username, err := s.sessions.Find(ctx, refreshToken)
	if err == repositories.ErrNotFound {
		return TokenPair{}, errors.NewAPIError("INVALID_TOKEN", "Refresh token is invalid or expired", http.StatusUnauthorized)
	}
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "SESSION_ERROR", "Failed to look up session", http.StatusInternalServerError)
	}
	if err := s.sessions.Delete(ctx, refreshToken); err != nil {
		return TokenPair{}, errors.Wrap(err, "SESSION_ERROR", "Failed to rotate session", http.StatusInternalServerError)
	}
	return s.issueTokens(ctx, username)
}

func (s *UserService) issueTokens(ctx context.Context, username string) (TokenPair, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(s.accessTTL).Unix(),
	})
	accessToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}

	refreshToken := uuid.New().String()
	if err := s.sessions.Save(ctx, refreshToken, username, s.refreshTTL); err != nil {
		return TokenPair{}, errors.Wrap(err, "SESSION_ERROR", "Failed to persist session", http.StatusInternalServerError)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, Username: username}, nil
}

// GetUser retrieves a user from the cache or the document store.
func (s *UserService) GetUser(ctx context.Context, username string) (models.User, error) {
	if userJSON, err := s.cache.Get(ctx, "user:"+username); err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
			return user, nil
		}
		log.Printf("Failed to unmarshal cached user %s, falling back to store", username)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err == repositories.ErrNotFound {
		return models.User{}, errors.NewAPIError("NOT_FOUND", "User not found", http.StatusNotFound)
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Failed to look up user", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// ListUsers returns every registered user as a client-safe profile.
func (s *UserService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to list users", http.StatusInternalServerError)
	}
	profiles := make([]models.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	return profiles, nil
}

func (s *UserService) cacheUser(ctx context.Context, user models.User) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, "user:"+user.Username, string(userJSON), userCacheTTL); err != nil {
		log.Printf("Failed to cache user %s: %v", user.Username, err)
	}
}
