package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eventpin/models"
)

// MongoPinRepository stores event pins in a MongoDB collection.
type MongoPinRepository struct {
	collection *mongo.Collection
}

func NewMongoPinRepository(client *mongo.Client, db string) *MongoPinRepository {
	return &MongoPinRepository{collection: client.Database(db).Collection("pins")}
}

func (r *MongoPinRepository) Insert(ctx context.Context, pin models.Pin) (models.Pin, error) {
	result, err := r.collection.InsertOne(ctx, pin)
	if err != nil {
		return models.Pin{}, err
	}
	pin.ID = result.InsertedID.(primitive.ObjectID)
	return pin, nil
}

func (r *MongoPinRepository) FindByID(ctx context.Context, id string) (models.Pin, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Pin{}, ErrInvalidID
	}
	var pin models.Pin
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&pin)
	if err == mongo.ErrNoDocuments {
		return models.Pin{}, ErrNotFound
	}
	if err != nil {
		return models.Pin{}, err
	}
	return pin, nil
}

func (r *MongoPinRepository) List(ctx context.Context) ([]models.Pin, error) {
	return r.find(ctx, bson.M{})
}

// ListByOwners returns pins whose owner is any of the given usernames.
func (r *MongoPinRepository) ListByOwners(ctx context.Context, owners []string) ([]models.Pin, error) {
	return r.find(ctx, bson.M{"username": bson.M{"$in": owners}})
}

func (r *MongoPinRepository) find(ctx context.Context, filter bson.M) ([]models.Pin, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pins []models.Pin
	if err := cursor.All(ctx, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *MongoPinRepository) Replace(ctx context.Context, pin models.Pin) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": pin.ID}, pin)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPinRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
