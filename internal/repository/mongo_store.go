package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/database"
)

// Collection names of the document mirror.
const (
	collPersons  = "persons"
	collVehicles = "vehicles"
	collServices = "services"
	collBookings = "bookings"
	collRatings  = "ratings"
)

// MongoStore serves the Store contract from the denormalized document
// mirror.  The underlying connection is established lazily by the handle;
// every error leaving this store is wrapped with a "nosql" prefix so
// operators can tell which backend failed.
type MongoStore struct {
	handle *database.MongoHandle
}

// NewMongoStore returns a MongoStore reading through the given handle.
func NewMongoStore(h *database.MongoHandle) *MongoStore { return &MongoStore{handle: h} }

// Backend implements Store.
func (m *MongoStore) Backend() string { return "nosql" }

// coll resolves a collection, connecting on first use.
func (m *MongoStore) coll(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := m.handle.DB(ctx)
	if err != nil {
		return nil, nosqlErr(err)
	}
	return db.Collection(name), nil
}

// nosqlErr tags a document-backend failure.  Sentinel errors pass through
// untouched so handlers can still match them.
func nosqlErr(err error) error {
	if err == nil {
		return nil
	}
	switch err {
	case ErrInvalidVehicle, ErrInvalidCustomer, ErrNoCustomers,
		ErrBookingNotFound, ErrNoBankAccount, ErrInvalidServiceSelection:
		return err
	}
	return fmt.Errorf("nosql: %w", err)
}
