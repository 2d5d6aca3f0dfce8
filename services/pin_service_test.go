package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPinFixture(usernames ...string) (*PinService, *fakePinRepo, *fakeUserRepo) {
	users := newFakeUserRepo()
	for _, username := range usernames {
		seedUser(users, username)
	}
	pins := newFakePinRepo()
	return NewPinService(pins, users), pins, users
}

func validPinInput() CreatePinInput {
	return CreatePinInput{
		Title:       "Picnic",
		Location:    "Ciutadella Park",
		Description: "Bring something to share",
		Date:        time.Now().Add(48 * time.Hour).UTC(),
		Lat:         41.38,
		Long:        2.16,
	}
}

func TestCreatePin(t *testing.T) {
	svc, _, _ := newPinFixture("alice")

	pin, err := svc.Create(context.Background(), "alice", validPinInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pin.Username != "alice" {
		t.Errorf("owner = %q, want alice", pin.Username)
	}
	if pin.ID.IsZero() {
		t.Error("created pin must have an id")
	}
	if len(pin.Assistants) != 0 {
		t.Errorf("new pin must start without assistants, got %v", pin.Assistants)
	}
	if pin.CreatedAt.IsZero() || pin.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestCreatePinValidation(t *testing.T) {
	svc, _, _ := newPinFixture("alice")

	tests := []struct {
		name   string
		mutate func(*CreatePinInput)
	}{
		{"missing title", func(in *CreatePinInput) { in.Title = "  " }},
		{"missing location", func(in *CreatePinInput) { in.Location = "" }},
		{"missing description", func(in *CreatePinInput) { in.Description = "" }},
		{"missing date", func(in *CreatePinInput) { in.Date = time.Time{} }},
		{"latitude out of range", func(in *CreatePinInput) { in.Lat = 91 }},
		{"longitude out of range", func(in *CreatePinInput) { in.Long = -181 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validPinInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), "alice", input)
			if got := apiStatus(t, err); got != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", got)
			}
		})
	}
}

func TestGetPin(t *testing.T) {
	svc, _, _ := newPinFixture("alice")
	ctx := context.Background()

	pin, err := svc.Create(ctx, "alice", validPinInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, pin.ID.Hex())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != pin.Title {
		t.Errorf("title = %q, want %q", got.Title, pin.Title)
	}

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	if got := apiStatus(t, err); got != http.StatusNotFound {
		t.Errorf("missing pin status = %d, want 404", got)
	}

	_, err = svc.Get(ctx, "not-an-id")
	if got := apiStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", got)
	}
}

func TestDeletePin(t *testing.T) {
	svc, _, _ := newPinFixture("alice", "charlie")
	ctx := context.Background()

	pin, err := svc.Create(ctx, "alice", validPinInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Delete(ctx, pin.ID.Hex(), "charlie")
	if got := apiStatus(t, err); got != http.StatusForbidden {
		t.Fatalf("non-owner delete status = %d, want 403", got)
	}

	if _, err := svc.Delete(ctx, pin.ID.Hex(), "alice"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	_, err = svc.Get(ctx, pin.ID.Hex())
	if got := apiStatus(t, err); got != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", got)
	}
}

func TestListVisibleTo(t *testing.T) {
	svc, _, users := newPinFixture("alice", "bob", "carol")
	ctx := context.Background()
	friends := NewFriendService(users, newFakeCache())

	alicePin, err := svc.Create(ctx, "alice", validPinInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "carol", validPinInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// bob is not yet a friend of alice, her pin must be invisible to him.
	visible, err := svc.ListVisibleTo(ctx, "bob")
	if err != nil {
		t.Fatalf("ListVisibleTo: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("bob sees %d pins before befriending anyone, want 0", len(visible))
	}

	if err := friends.SendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := friends.AcceptRequest(ctx, "bob", "alice"); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	visible, err = svc.ListVisibleTo(ctx, "bob")
	if err != nil {
		t.Fatalf("ListVisibleTo: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != alicePin.ID {
		t.Fatalf("bob must see exactly alice's pin, got %v", visible)
	}

	// Owner always sees their own pins.
	visible, err = svc.ListVisibleTo(ctx, "carol")
	if err != nil {
		t.Fatalf("ListVisibleTo: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("carol sees %d pins, want 1", len(visible))
	}

	// No username: unfiltered listing.
	visible, err = svc.ListVisibleTo(ctx, "")
	if err != nil {
		t.Fatalf("ListVisibleTo: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("unfiltered listing has %d pins, want 2", len(visible))
	}

	_, err = svc.ListVisibleTo(ctx, "ghost")
	if got := apiStatus(t, err); got != http.StatusNotFound {
		t.Fatalf("unknown user status = %d, want 404", got)
	}
}

func TestJoinAndLeave(t *testing.T) {
	svc, _, _ := newPinFixture("alice", "bob")
	ctx := context.Background()

	pin, err := svc.Create(ctx, "alice", validPinInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := pin.ID.Hex()

	updated, err := svc.Join(ctx, id, "bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(updated.Assistants) != 1 || updated.Assistants[0] != "bob" {
		t.Fatalf("assistants = %v, want [bob]", updated.Assistants)
	}

	_, err = svc.Join(ctx, id, "bob")
	if got := apiStatus(t, err); got != http.StatusConflict {
		t.Fatalf("second join status = %d, want 409", got)
	}

	updated, err = svc.Leave(ctx, id, "bob")
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if len(updated.Assistants) != 0 {
		t.Fatalf("assistants = %v, want empty", updated.Assistants)
	}

	_, err = svc.Leave(ctx, id, "bob")
	if got := apiStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("leave without membership status = %d, want 400", got)
	}
}

func TestOwnerCannotJoin(t *testing.T) {
	svc, _, _ := newPinFixture("alice")
	ctx := context.Background()

	pin, err := svc.Create(ctx, "alice", validPinInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Join(ctx, pin.ID.Hex(), "alice")
	if got := apiStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("owner join status = %d, want 400", got)
	}
}

func TestJoinMissingPin(t *testing.T) {
	svc, _, _ := newPinFixture("bob")

	_, err := svc.Join(context.Background(), primitive.NewObjectID().Hex(), "bob")
	if got := apiStatus(t, err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestPatchFields(t *testing.T) {
	svc, repo, _ := newPinFixture("alice", "charlie")
	ctx := context.Background()

	pin, err := svc.Create(ctx, "alice", validPinInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := pin.ID.Hex()

	if _, err := svc.SetTitle(ctx, id, "charlie", "Hijacked"); apiStatus(t, err) != http.StatusForbidden {
		t.Fatal("non-owner title patch must be forbidden")
	}

	updated, err := svc.SetTitle(ctx, id, "alice", "Evening Picnic")
	if err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if updated.Title != "Evening Picnic" {
		t.Errorf("title = %q", updated.Title)
	}
	if !updated.UpdatedAt.After(pin.UpdatedAt) && !updated.UpdatedAt.Equal(pin.UpdatedAt) {
		t.Error("UpdatedAt must not go backwards")
	}

	if _, err := svc.SetLocation(ctx, id, "alice", "Montjuïc"); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	if _, err := svc.SetDescription(ctx, id, "alice", "New plan"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if _, err := svc.SetDate(ctx, id, "alice", time.Now().Add(72*time.Hour)); err != nil {
		t.Fatalf("SetDate: %v", err)
	}

	if _, err := svc.SetTitle(ctx, id, "alice", "  "); apiStatus(t, err) != http.StatusBadRequest {
		t.Fatal("blank title must be rejected")
	}
	if _, err := svc.SetDate(ctx, id, "alice", time.Now().Add(-time.Hour)); apiStatus(t, err) != http.StatusBadRequest {
		t.Fatal("past date must be rejected")
	}

	stored := repo.pins[id]
	if stored.Location != "Montjuïc" || stored.Description != "New plan" {
		t.Errorf("patches not persisted: %+v", stored)
	}
}
