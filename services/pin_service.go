package services

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"eventpin/models"
	"eventpin/repositories"
	"eventpin/utils/errors"
)

// PinService owns event pins: ownership-scoped CRUD, friends-only visibility
// and the assistant (RSVP) list.
type PinService struct {
	pins  PinRepository
	users UserRepository
}

func NewPinService(pins PinRepository, users UserRepository) *PinService {
	return &PinService{pins: pins, users: users}
}

// CreatePinInput carries the client-supplied fields of a new pin. The owner
// always comes from the authenticated principal, never from the body.
type CreatePinInput struct {
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"`
	Lat         float64   `json:"lat"`
	Long        float64   `json:"long"`
}

// Create validates and stores a new pin owned by owner.
func (s *PinService) Create(ctx context.Context, owner string, input CreatePinInput) (models.Pin, error) {
	if owner == "" {
		return models.Pin{}, errors.ErrUnauthorized
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.Pin{}, errors.NewAPIError("INVALID_INPUT", "Title is required", http.StatusBadRequest)
	}
	if strings.TrimSpace(input.Location) == "" {
		return models.Pin{}, errors.NewAPIError("INVALID_INPUT", "Location is required", http.StatusBadRequest)
	}
	if strings.TrimSpace(input.Description) == "" {
		return models.Pin{}, errors.NewAPIError("INVALID_INPUT", "Description is required", http.StatusBadRequest)
	}
	if input.Date.IsZero() {
		return models.Pin{}, errors.NewAPIError("INVALID_INPUT", "Date is required", http.StatusBadRequest)
	}
	if err := validateCoordinates(input.Lat, input.Long); err != nil {
		return models.Pin{}, err
	}

	now := time.Now().UTC()
	pin := models.Pin{
		Username:    owner,
		Title:       input.Title,
		Location:    input.Location,
		Description: input.Description,
		Date:        input.Date,
		Price:       input.Price,
		Lat:         input.Lat,
		Long:        input.Long,
		Assistants:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	pin, err := s.pins.Insert(ctx, pin)
	if err != nil {
		return models.Pin{}, errors.Wrap(err, "DB_ERROR", "Failed to create pin", http.StatusInternalServerError)
	}
	log.Printf("Pin %q created by %s at (%f, %f)", pin.Title, owner, pin.Lat, pin.Long)
	return pin, nil
}

// Get returns a pin by id.
func (s *PinService) Get(ctx context.Context, id string) (models.Pin, error) {
	pin, err := s.pins.FindByID(ctx, id)
	switch err {
	case nil:
		return pin, nil
	case repositories.ErrInvalidID:
		return models.Pin{}, errors.NewAPIError("INVALID_INPUT", "Invalid pin ID", http.StatusBadRequest)
	case repositories.ErrNotFound:
		return models.Pin{}, errors.NewAPIError("NOT_FOUND", "Pin not found", http.StatusNotFound)
	default:
		return models.Pin{}, errors.Wrap(err, "DB_ERROR", "Failed to look up pin", http.StatusInternalServerError)
	}
}

// Delete removes a pin. Only the owner may delete it.
func (s *PinService) Delete(ctx context.Context, id, requester string) (models.Pin, error) {
	pin, err := s.Get(ctx, id)
	if err != nil {
		return models.Pin{}, err
	}
	if pin.Username != requester {
		return models.Pin{}, errors.NewAPIError("FORBIDDEN", "Only the owner can delete a pin", http.StatusForbidden)
	}
	if err := s.pins.Delete(ctx, id); err != nil {
		if err == repositories.ErrNotFound {
			return models.Pin{}, errors.NewAPIError("NOT_FOUND", "Pin not found", http.StatusNotFound)
		}
		return models.Pin{}, errors.Wrap(err, "DB_ERROR", "Failed to delete pin", http.StatusInternalServerError)
	}
	return pin, nil
}

// ListVisibleTo returns the pins owned by username or by any of their
// friends. An empty username returns every pin; existing clients rely on the
// unfiltered listing.
func (s *PinService) ListVisibleTo(ctx context.Context, username string) ([]models.Pin, error) {
	if username == "" {
		pins, err := s.pins.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "DB_ERROR", "Failed to list pins", http.StatusInternalServerError)
		}
		return pins, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err == repositories.ErrNotFound {
		return nil, errors.NewAPIError("NOT_FOUND", "User not found", http.StatusNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to look up user", http.StatusInternalServerError)
	}

	owners := append([]string{username}, user.Friends...)
	pins, err := s.pins.ListByOwners(ctx, owners)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to list pins", http.StatusInternalServerError)
	}
	return pins, nil
}

// Join adds username to the pin's assistant list. Owners are implicitly
// attending their own events and are kept out of the list.
func (s *PinService) Join(ctx context.Context, id, username string) (models.Pin, error) {
	pin, err := s.Get(ctx, id)
	if err != nil {
		return models.Pin{}, err
	}
	if pin.Username == username {
		return models.Pin{}, errors.InvalidOperation("The owner is already attending their own event")
	}
	if pin.HasAssistant(username) {
		return models.Pin{}, errors.NewAPIError("CONFLICT", "User is already an assistant", http.StatusConflict)
	}

	pin.Assistants = append(pin.Assistants, username)
	return s.savePin(ctx, pin)
}

// Leave removes username from the pin's assistant list.
func (s *PinService) Leave(ctx context.Context, id, username string) (models.Pin, error) {
	pin, err := s.Get(ctx, id)
	if err != nil {
		return models.Pin{}, err
	}
	if !pin.HasAssistant(username) {
		return models.Pin{}, errors.InvalidOperation("User is not an assistant")
	}

	pin.Assistants = remove(pin.Assistants, username)
	return s.savePin(ctx, pin)
}

// SetTitle updates the pin title. Owner only.
func (s *PinService) SetTitle(ctx context.Context, id, requester, title string) (models.Pin, error) {
	return s.patch(ctx, id, requester, func(pin *models.Pin) error {
		if strings.TrimSpace(title) == "" {
			return errors.NewAPIError("INVALID_INPUT", "Title is required", http.StatusBadRequest)
		}
		pin.Title = title
		return nil
	})
}

// SetLocation updates the pin location. Owner only.
func (s *PinService) SetLocation(ctx context.Context, id, requester, location string) (models.Pin, error) {
	return s.patch(ctx, id, requester, func(pin *models.Pin) error {
		if strings.TrimSpace(location) == "" {
			return errors.NewAPIError("INVALID_INPUT", "Location is required", http.StatusBadRequest)
		}
		pin.Location = location
		return nil
	})
}

// SetDescription updates the pin description. Owner only.
func (s *PinService) SetDescription(ctx context.Context, id, requester, description string) (models.Pin, error) {
	return s.patch(ctx, id, requester, func(pin *models.Pin) error {
		if strings.TrimSpace(description) == "" {
			return errors.NewAPIError("INVALID_INPUT", "Description is required", http.StatusBadRequest)
		}
		pin.Description = description
		return nil
	})
}

// SetDate reschedules the event. Owner only; the new date cannot be in the past.
func (s *PinService) SetDate(ctx context.Context, id, requester string, date time.Time) (models.Pin, error) {
	return s.patch(ctx, id, requester, func(pin *models.Pin) error {
		if date.IsZero() {
			return errors.NewAPIError("INVALID_INPUT", "Date is required", http.StatusBadRequest)
		}
		if date.Before(time.Now().UTC()) {
			return errors.NewAPIError("INVALID_INPUT", "Date cannot be in the past", http.StatusBadRequest)
		}
		pin.Date = date
		return nil
	})
}

func (s *PinService) patch(ctx context.Context, id, requester string, apply func(*models.Pin) error) (models.Pin, error) {
	pin, err := s.Get(ctx, id)
	if err != nil {
		return models.Pin{}, err
	}
	if pin.Username != requester {
		return models.Pin{}, errors.NewAPIError("FORBIDDEN", "Only the owner can edit a pin", http.StatusForbidden)
	}
	if err := apply(&pin); err != nil {
		return models.Pin{}, err
	}
	return s.savePin(ctx, pin)
}

func (s *PinService) savePin(ctx context.Context, pin models.Pin) (models.Pin, error) {
	pin.UpdatedAt = time.Now().UTC()
	if err := s.pins.Replace(ctx, pin); err != nil {
		if err == repositories.ErrNotFound {
			return models.Pin{}, errors.NewAPIError("NOT_FOUND", "Pin not found", http.StatusNotFound)
		}
		return models.Pin{}, errors.Wrap(err, "DB_ERROR", "Failed to update pin", http.StatusInternalServerError)
	}
	return pin, nil
}

func validateCoordinates(lat, long float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(long) || math.IsInf(long, 0) {
		return errors.NewAPIError("INVALID_INPUT", "Coordinates must be finite numbers", http.StatusBadRequest)
	}
	if lat < -90 || lat > 90 || long < -180 || long > 180 {
		return errors.NewAPIError("INVALID_INPUT", "Coordinates out of range", http.StatusBadRequest)
	}
	return nil
}
