// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a rental booking is successfully
// created. It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying either database backend.
type BookingCreatedEvent struct {
	BookingID    string  `json:"booking_id"`
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	VehicleID    string  `json:"vehicle_id"`
	Producer     string  `json:"producer"`
	Model        string  `json:"model"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	RentalDays   int     `json:"rental_days"`
	TotalCosts   float64 `json:"total_costs"`
	Backend      string  `json:"backend"`
	CreatedAt    string  `json:"created_at"`
}
