package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A vehicle set read through the document mirror must match what the
// relational backend reported for the same unbooked range.
func TestMigratedVehiclesMatchRelationalAvailability(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM Vehicle ORDER BY vehicle_id").
		WillReturnRows(sqlmock.NewRows([]string{
			"vehicle_id", "model", "producer", "costs_per_day", "plate_number", "number_of_seats", "retailer_id",
		}).
			AddRow("v1", "Golf", "VW", []byte("50.00"), "W-123AB", 5, "p3").
			AddRow("v2", "Model 3", "Tesla", []byte("120.00"), "W-456CD", 5, "p3"))

	docs, err := loadVehicleDocs(context.Background(), store.db)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	mock.ExpectQuery("FROM Vehicle v LEFT JOIN Booking b").
		WithArgs("2026-09-10", "2026-09-01").
		WillReturnRows(sqlmock.NewRows([]string{
			"vehicle_id", "model", "producer", "costs_per_day", "plate_number",
		}).
			AddRow("v2", "Model 3", "Tesla", []byte("120.00"), "W-456CD").
			AddRow("v1", "Golf", "VW", []byte("50.00"), "W-123AB"))

	relational, err := store.AvailableVehicles(context.Background(), "2026-09-01", "2026-09-10")
	require.NoError(t, err)

	migrated := make([]AvailableVehicle, len(docs))
	for i, d := range docs {
		migrated[i] = availableVehicleFromDoc(d)
	}
	assert.ElementsMatch(t, relational, migrated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadVehicleDocsConvertsDecimalCosts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM Vehicle ORDER BY vehicle_id").
		WillReturnRows(sqlmock.NewRows([]string{
			"vehicle_id", "model", "producer", "costs_per_day", "plate_number", "number_of_seats", "retailer_id",
		}).AddRow("v1", "Golf", "VW", []byte("50.00"), "W-123AB", 5, "p3"))

	docs, err := loadVehicleDocs(context.Background(), store.db)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 50.0, docs[0].CostsPerDay)
	assert.Equal(t, 5, docs[0].NumberOfSeats)
	assert.Equal(t, "p3", docs[0].RetailerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
