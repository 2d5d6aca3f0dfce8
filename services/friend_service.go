package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"eventpin/models"
	"eventpin/repositories"
	"eventpin/utils/errors"
)

// FriendService owns the friendship lifecycle between two users:
// none -> request outstanding -> friends, with reject/cancel and unfriend
// transitions back to none. Every mutation touches both user documents and is
// written through UserRepository.ReplacePair to keep the relation symmetric.
type FriendService struct {
	users UserRepository
	cache Cache
}

func NewFriendService(users UserRepository, cache Cache) *FriendService {
	return &FriendService{users: users, cache: cache}
}

// SendRequest records that `from` wants to befriend `to`.
func (s *FriendService) SendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return errors.InvalidOperation("Cannot send a friend request to yourself")
	}

	sender, recipient, err := s.loadPair(ctx, from, to)
	if err != nil {
		return err
	}

	if sender.IsFriend(to) {
		return errors.NewAPIError("CONFLICT", "Already friends", http.StatusConflict)
	}
	if sender.HasSentRequestTo(to) {
		return errors.NewAPIError("CONFLICT", "Friend request already sent", http.StatusConflict)
	}
	if sender.HasPendingRequestFrom(to) {
		return errors.NewAPIError("CONFLICT", "There is already a pending request from this user", http.StatusConflict)
	}

	sender.SentFriendRequests = appendUnique(sender.SentFriendRequests, to)
	recipient.PendingFriendRequests = appendUnique(recipient.PendingFriendRequests, from)
	if err := s.savePair(ctx, sender, recipient); err != nil {
		return err
	}

	log.Printf("Friend request sent from %s to %s", from, to)
	return nil
}

// AcceptRequest turns an outstanding request from `from` into a friendship.
func (s *FriendService) AcceptRequest(ctx context.Context, of, from string) error {
	if of == from {
		return errors.InvalidOperation("Cannot accept a friend request from yourself")
	}

	user, sender, err := s.loadPair(ctx, of, from)
	if err != nil {
		return err
	}

	if !user.HasPendingRequestFrom(from) {
		return errors.InvalidOperation("No pending friend request from this user")
	}

	user.PendingFriendRequests = remove(user.PendingFriendRequests, from)
	user.SentFriendRequests = remove(user.SentFriendRequests, from)
	sender.SentFriendRequests = remove(sender.SentFriendRequests, of)
	sender.PendingFriendRequests = remove(sender.PendingFriendRequests, of)
	user.Friends = appendUnique(user.Friends, from)
	sender.Friends = appendUnique(sender.Friends, of)

	if err := s.savePair(ctx, user, sender); err != nil {
		return err
	}

	log.Printf("Friend request accepted: %s and %s are now friends", of, from)
	return nil
}

// RejectRequest clears an outstanding request from `from` without creating a
// friendship. A reject with no outstanding request is a no-op.
func (s *FriendService) RejectRequest(ctx context.Context, of, from string) error {
	if of == from {
		return errors.InvalidOperation("Cannot reject a friend request from yourself")
	}

	user, sender, err := s.loadPair(ctx, of, from)
	if err != nil {
		return err
	}

	if !user.HasPendingRequestFrom(from) && !sender.HasSentRequestTo(of) {
		return nil
	}

	user.PendingFriendRequests = remove(user.PendingFriendRequests, from)
	sender.SentFriendRequests = remove(sender.SentFriendRequests, of)
	return s.savePair(ctx, user, sender)
}

// RemoveFriend dissolves an established friendship on both sides. Removing a
// non-friend is a no-op.
func (s *FriendService) RemoveFriend(ctx context.Context, of, other string) error {
	if of == other {
		return errors.InvalidOperation("Cannot unfriend yourself")
	}

	user, friend, err := s.loadPair(ctx, of, other)
	if err != nil {
		return err
	}

	if !user.IsFriend(other) && !friend.IsFriend(of) {
		return nil
	}

	user.Friends = remove(user.Friends, other)
	friend.Friends = remove(friend.Friends, of)
	if err := s.savePair(ctx, user, friend); err != nil {
		return err
	}

	log.Printf("Friendship removed between %s and %s", of, other)
	return nil
}

// ListFriends resolves a user's friends into client-safe profiles.
func (s *FriendService) ListFriends(ctx context.Context, of string) ([]models.Profile, error) {
	user, err := s.users.FindByUsername(ctx, of)
	if err == repositories.ErrNotFound {
		return nil, errors.NewAPIError("NOT_FOUND", "User not found", http.StatusNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to look up user", http.StatusInternalServerError)
	}

	profiles := make([]models.Profile, 0, len(user.Friends))
	for _, friendUsername := range user.Friends {
		friend, err := s.users.FindByUsername(ctx, friendUsername)
		if err != nil {
			log.Printf("Failed to resolve friend %s of %s: %v", friendUsername, of, err)
			continue
		}
		profiles = append(profiles, friend.Profile())
	}
	return profiles, nil
}

func (s *FriendService) loadPair(ctx context.Context, a, b string) (models.User, models.User, error) {
	first, err := s.users.FindByUsername(ctx, a)
	if err == repositories.ErrNotFound {
		return models.User{}, models.User{}, errors.NewAPIError("NOT_FOUND", "User "+a+" not found", http.StatusNotFound)
	}
	if err != nil {
		return models.User{}, models.User{}, errors.Wrap(err, "DB_ERROR", "Failed to look up user", http.StatusInternalServerError)
	}
	second, err := s.users.FindByUsername(ctx, b)
	if err == repositories.ErrNotFound {
		return models.User{}, models.User{}, errors.NewAPIError("NOT_FOUND", "User "+b+" not found", http.StatusNotFound)
	}
	if err != nil {
		return models.User{}, models.User{}, errors.Wrap(err, "DB_ERROR", "Failed to look up user", http.StatusInternalServerError)
	}
	return first, second, nil
}

func (s *FriendService) savePair(ctx context.Context, a, b models.User) error {
	now := time.Now().UTC()
	a.UpdatedAt = now
	b.UpdatedAt = now
	if err := s.users.ReplacePair(ctx, a, b); err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to update users", http.StatusInternalServerError)
	}
	if err := s.cache.Delete(ctx, "user:"+a.Username, "user:"+b.Username); err != nil {
		log.Printf("Failed to invalidate cached users %s, %s: %v", a.Username, b.Username, err)
	}
	return nil
}

func appendUnique(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}

func remove(s []string, v string) []string {
	out := make([]string, 0, len(s))
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}
