package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventpin/models"
	"eventpin/repositories"
)

// In-memory stand-ins for the Mongo/Redis repositories so the services can be
// exercised without a running store.

type fakeUserRepo struct {
	users map[string]models.User // keyed by username
	finds int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func copyUser(u models.User) models.User {
	u.Friends = append([]string(nil), u.Friends...)
	u.SentFriendRequests = append([]string(nil), u.SentFriendRequests...)
	u.PendingFriendRequests = append([]string(nil), u.PendingFriendRequests...)
	return u
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (models.User, error) {
	r.finds++
	user, ok := r.users[username]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return copyUser(user), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r *fakeUserRepo) Insert(_ context.Context, user models.User) (models.User, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.User{}, repositories.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.Username] = copyUser(user)
	return user, nil
}

func (r *fakeUserRepo) Replace(_ context.Context, user models.User) error {
	if _, ok := r.users[user.Username]; !ok {
		return repositories.ErrNotFound
	}
	r.users[user.Username] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) ReplacePair(_ context.Context, a, b models.User) error {
	if _, ok := r.users[a.Username]; !ok {
		return repositories.ErrNotFound
	}
	if _, ok := r.users[b.Username]; !ok {
		return repositories.ErrNotFound
	}
	r.users[a.Username] = copyUser(a)
	r.users[b.Username] = copyUser(b)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, copyUser(user))
	}
	return out, nil
}

type fakePinRepo struct {
	pins map[string]models.Pin // keyed by hex id
}

func newFakePinRepo() *fakePinRepo {
	return &fakePinRepo{pins: make(map[string]models.Pin)}
}

func copyPin(p models.Pin) models.Pin {
	p.Assistants = append([]string(nil), p.Assistants...)
	return p
}

func (r *fakePinRepo) Insert(_ context.Context, pin models.Pin) (models.Pin, error) {
	pin.ID = primitive.NewObjectID()
	r.pins[pin.ID.Hex()] = copyPin(pin)
	return pin, nil
}

func (r *fakePinRepo) FindByID(_ context.Context, id string) (models.Pin, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return models.Pin{}, repositories.ErrInvalidID
	}
	pin, ok := r.pins[id]
	if !ok {
		return models.Pin{}, repositories.ErrNotFound
	}
	return copyPin(pin), nil
}

func (r *fakePinRepo) List(_ context.Context) ([]models.Pin, error) {
	out := make([]models.Pin, 0, len(r.pins))
	for _, pin := range r.pins {
		out = append(out, copyPin(pin))
	}
	return out, nil
}

func (r *fakePinRepo) ListByOwners(_ context.Context, owners []string) ([]models.Pin, error) {
	ownerSet := make(map[string]bool, len(owners))
	for _, o := range owners {
		ownerSet[o] = true
	}
	var out []models.Pin
	for _, pin := range r.pins {
		if ownerSet[pin.Username] {
			out = append(out, copyPin(pin))
		}
	}
	return out, nil
}

func (r *fakePinRepo) Replace(_ context.Context, pin models.Pin) error {
	if _, ok := r.pins[pin.ID.Hex()]; !ok {
		return repositories.ErrNotFound
	}
	r.pins[pin.ID.Hex()] = copyPin(pin)
	return nil
}

func (r *fakePinRepo) Delete(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repositories.ErrInvalidID
	}
	if _, ok := r.pins[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.pins, id)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]string // token -> username
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]string)}
}

func (s *fakeSessionStore) Save(_ context.Context, token, username string, _ time.Duration) error {
	s.sessions[token] = username
	return nil
}

func (s *fakeSessionStore) Find(_ context.Context, token string) (string, error) {
	username, ok := s.sessions[token]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return username, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := c.values[key]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}
