package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ulvgard/procplan/internal/domain"
)

// BookingRepository implements storage.BookingRepository using MongoDB.
// Booking ids stay monotonic across restarts via a counters collection
// incremented with FindOneAndUpdate, and status transitions are
// compare-and-set filters so two concurrent completions cannot both apply.
type BookingRepository struct {
	client   *mongo.Client
	database string

	collection string
	counters   string
}

// NewBookingRepository connects to MongoDB and returns a booking repository.
func NewBookingRepository(mongoURI, database, collection string) (*BookingRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &BookingRepository{
		client:     client,
		database:   database,
		collection: collection,
		counters:   collection + "_counters",
	}, nil
}

func (r *BookingRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// nextID increments and returns the booking id counter.
func (r *BookingRepository) nextID(ctx context.Context) (int64, error) {
	counters := r.client.Database(r.database).Collection(r.counters)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "bookings"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate booking id: %w", err)
	}
	return doc.Seq, nil
}

// Insert persists a new booking, assigning the next monotonic id.
func (r *BookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	if b == nil || len(b.GPUs) == 0 {
		return domain.ErrInvalidInput
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	b.ID = id

	if _, err := r.coll().InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// Get retrieves a booking by id.
func (r *BookingRepository) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &domain.NotFoundError{BookingID: id}
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// ListActiveOverlapping returns Active bookings overlapping the slot,
// optionally restricted to bookings referencing one of gpuIDs.
func (r *BookingRepository) ListActiveOverlapping(ctx context.Context, slot domain.TimeSlot, gpuIDs []string) ([]*domain.Booking, error) {
	// Half-open overlap: b.start < slot.end && b.end > slot.start
	filter := bson.M{
		"status":     domain.StatusActive,
		"slot.start": bson.M{"$lt": slot.End},
		"slot.end":   bson.M{"$gt": slot.Start},
	}
	if gpuIDs != nil {
		filter["gpus.id"] = bson.M{"$in": gpuIDs}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []domain.Booking
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	pointers := make([]*domain.Booking, len(results))
	for i := range results {
		pointers[i] = &results[i]
	}
	return pointers, nil
}

// UpdateStatus transitions a booking's status as a compare-and-set.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, completedAt *time.Time) error {
	set := bson.M{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if completedAt != nil {
		set["completed_at"] = completedAt.UTC()
	}

	res, err := r.coll().UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// CAS missed: distinguish a missing booking from a lost race.
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return &domain.InvalidStateError{BookingID: id, Status: current.Status, Op: "transition"}
}

// Count returns the total number of bookings in any status.
func (r *BookingRepository) Count(ctx context.Context) int64 {
	count, err := r.coll().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0
	}
	return count
}

// Close closes the MongoDB connection.
func (r *BookingRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
