package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username              string             `json:"username" bson:"username"`
	Email                 string             `json:"email" bson:"email"`
	PasswordHash          string             `json:"-" bson:"password_hash"`
	Friends               []string           `json:"friends" bson:"friends"`
	SentFriendRequests    []string           `json:"sentFriendRequests" bson:"sent_friend_requests"`
	PendingFriendRequests []string           `json:"pendingFriendRequests" bson:"pending_friend_requests"`
	CreatedAt             time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt             time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Profile is the client-facing projection of a User. The password hash is
// already excluded from JSON on User, but handing out a separate type keeps
// store-only fields from leaking as the model grows.
type Profile struct {
	ID                    string    `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	Friends               []string  `json:"friends"`
	SentFriendRequests    []string  `json:"sentFriendRequests"`
	PendingFriendRequests []string  `json:"pendingFriendRequests"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:                    u.ID.Hex(),
		Username:              u.Username,
		Email:                 u.Email,
		Friends:               emptyIfNil(u.Friends),
		SentFriendRequests:    emptyIfNil(u.SentFriendRequests),
		PendingFriendRequests: emptyIfNil(u.PendingFriendRequests),
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

// IsFriend reports whether username is in the user's friends set.
func (u User) IsFriend(username string) bool {
	return contains(u.Friends, username)
}

// HasSentRequestTo reports whether the user has an outstanding request to username.
func (u User) HasSentRequestTo(username string) bool {
	return contains(u.SentFriendRequests, username)
}

// HasPendingRequestFrom reports whether username has an outstanding request to the user.
func (u User) HasPendingRequestFrom(username string) bool {
	return contains(u.PendingFriendRequests, username)
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
