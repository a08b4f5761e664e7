// Package repository implements the dual data-access layer: the same set
// of booking, service and report operations against either the relational
// MySQL schema or its denormalized MongoDB mirror.  Sentinel errors below
// let handlers distinguish business-rule failures from infrastructure
// failures; everything not matching a sentinel is reported as a generic
// backend error.
package repository

import "errors"

// ErrInvalidVehicle is returned when a booking references a vehicle id
// that does not exist.  Handlers translate this into HTTP 400.
var ErrInvalidVehicle = errors.New("invalid vehicle")

// ErrInvalidCustomer is returned when a booking references a customer id
// that does not exist.  Handlers translate this into HTTP 400.
var ErrInvalidCustomer = errors.New("invalid customer")

// ErrNoCustomers is returned when booking creation has to fall back to the
// first customer on record and there are none.
var ErrNoCustomers = errors.New("no customers available")

// ErrBookingNotFound is returned when no booking matches the requested id,
// customer and "starts today or later" gate.  Handlers translate this into
// HTTP 404.
var ErrBookingNotFound = errors.New("booking not found or inactive")

// ErrNoBankAccount is returned when the paying customer has no bank
// account on file.  Handlers translate this into HTTP 400.
var ErrNoBankAccount = errors.New("customer has no bank account")

// ErrInvalidServiceSelection is returned when at least one requested
// additional-service id does not exist.  Handlers translate this into
// HTTP 400.
var ErrInvalidServiceSelection = errors.New("invalid additional service selection")

// ErrUnknownTable is returned by the schema explorer for names outside
// its allowlist.  Handlers translate this into HTTP 400.
var ErrUnknownTable = errors.New("unknown table")
