package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Pin struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Title       string             `json:"title" bson:"title"`
	Location    string             `json:"location" bson:"location"`
	Description string             `json:"description" bson:"description"`
	Date        time.Time          `json:"date" bson:"date"`
	Price       float64            `json:"price,omitempty" bson:"price,omitempty"`
	Lat         float64            `json:"lat" bson:"lat"`
	Long        float64            `json:"long" bson:"long"`
	Assistants  []string           `json:"assistants" bson:"assistants"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// HasAssistant reports whether username has RSVP'd to the pin.
func (p Pin) HasAssistant(username string) bool {
	for _, a := range p.Assistants {
		if a == username {
			return true
		}
	}
	return false
}
