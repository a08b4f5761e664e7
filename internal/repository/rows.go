package repository

// Result row shapes returned by both backends.  JSON tags define the API
// wire format; bson tags let the Mongo backend decode aggregation output
// straight into the same structs.  Column names (including the historical
// "driver_licencse_number" misspelling) follow the deployed schema.

// ReservationCustomer is one row of the reservation workflow's customer
// list.  Bank fields are nullable: customers without a bank account are
// still listed here, unlike in the service workflow.
type ReservationCustomer struct {
	PersonID            string  `json:"person_id"`
	Name                string  `json:"name"`
	CustomerNumber      string  `json:"customer_number"`
	DriverLicenceNumber string  `json:"driver_licencse_number"`
	IBAN                *string `json:"iban"`
}

// ServiceCustomer is one row of the service workflow's customer list.
// Only customers with a bank account appear.
type ServiceCustomer struct {
	PersonID            string  `json:"person_id"`
	Name                string  `json:"name"`
	EMail               *string `json:"eMail"`
	PhoneNumber         *string `json:"phone_number"`
	Address             *string `json:"address"`
	CustomerNumber      string  `json:"customer_number"`
	DriverLicenceNumber string  `json:"driver_licencse_number"`
	AccountID           string  `json:"account_id"`
	IBAN                string  `json:"iban"`
	BIC                 string  `json:"bic"`
}

// AvailableVehicle is one row of the availability listing.
type AvailableVehicle struct {
	VehicleID   string  `json:"vehicle_id"`
	Model       string  `json:"model"`
	Producer    string  `json:"producer"`
	CostsPerDay float64 `json:"costs_per_day"`
	PlateNumber string  `json:"plate_number"`
}

// CreateBookingInput carries the reservation request.  CustomerID may be
// empty, in which case the first customer on record (ordered by name) is
// used.
type CreateBookingInput struct {
	CustomerID   string
	VehicleID    string
	StartDate    string
	EndDate      string
	WayOfBilling string
}

// CreateBookingResult reports the generated id and the base total.  The
// remaining fields stay out of the response body; they feed the
// booking-created event so the publisher needs no second lookup.
type CreateBookingResult struct {
	BookingID  string  `json:"booking_id"`
	TotalCosts float64 `json:"total_costs"`

	CustomerID   string `json:"-"`
	CustomerName string `json:"-"`
	VehicleID    string `json:"-"`
	Producer     string `json:"-"`
	Model        string `json:"-"`
	StartDate    string `json:"-"`
	EndDate      string `json:"-"`
	Days         int    `json:"-"`
}

// CustomerBooking is one row of a customer's upcoming-bookings listing,
// with the cost breakdown recomputed at read time.
type CustomerBooking struct {
	BookingID     string   `json:"booking_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	WayOfBilling  string   `json:"way_of_billing"`
	VehicleID     string   `json:"vehicle_id"`
	TotalCosts    *float64 `json:"total_costs"`
	Model         string   `json:"model"`
	Producer      string   `json:"producer"`
	CostsPerDay   float64  `json:"costs_per_day"`
	PlateNumber   string   `json:"plate_number"`
	NumberOfSeats int      `json:"number_of_seats"`
	Days          int      `json:"days"`
	BaseCost      float64  `json:"base_cost"`
	ExtrasCost    float64  `json:"extras_cost"`
	TotalCost     float64  `json:"total_cost"`
}

// ServiceOption is one additional service, either still available for or
// already attached to a booking.
type ServiceOption struct {
	AdditionalServiceID string  `json:"additional_service_id"`
	Description         string  `json:"description"`
	Costs               float64 `json:"costs"`
}

// BookingServiceLists holds the two disjoint service lists for a booking.
type BookingServiceLists struct {
	Available []ServiceOption `json:"available"`
	Current   []ServiceOption `json:"current"`
}

// AttachResult reports the recomputed cost breakdown after attaching
// services to a booking.
type AttachResult struct {
	BaseCost   float64
	ExtrasCost float64
	TotalCost  float64
}

// VehicleReportFilter narrows the utilization report.  Empty fields are
// skipped; set fields combine with AND.
type VehicleReportFilter struct {
	From      string // start_date >= From
	To        string // end_date <= To
	VehicleID string // exact vehicle match
}

// VehicleReportRow is one booking in the utilization report.  Bookings
// without services appear with additional_cost 0.
type VehicleReportRow struct {
	BookingID      string  `json:"booking_id" bson:"booking_id"`
	CustomerName   string  `json:"customer_name" bson:"customer_name"`
	Producer       string  `json:"producer" bson:"producer"`
	Model          string  `json:"model" bson:"model"`
	StartDate      string  `json:"start_date" bson:"start_date"`
	EndDate        string  `json:"end_date" bson:"end_date"`
	CostsPerDay    float64 `json:"costs_per_day" bson:"costs_per_day"`
	Days           int     `json:"days" bson:"days"`
	BaseCost       float64 `json:"base_cost" bson:"base_cost"`
	AdditionalCost float64 `json:"additional_cost" bson:"additional_cost"`
	TotalCost      float64 `json:"total_cost" bson:"total_cost"`
}

// ServiceReportFilter narrows the customer/retailer/service report.
// Empty fields are skipped; set fields combine with AND.
type ServiceReportFilter struct {
	From       string // start_date >= From
	To         string // start_date < To
	CustomerID string // exact customer match
	RetailerID string // exact retailer match
}

// ServiceReportRow is one booking in the service report.  Only bookings
// with at least one attached service appear.
type ServiceReportRow struct {
	BookingID          string  `json:"booking_id"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	CustomerID         string  `json:"customer_id"`
	CustomerName       string  `json:"customer_name"`
	CustomerIBAN       *string `json:"customer_iban"`
	CustomerBIC        *string `json:"customer_bic"`
	VehicleID          string  `json:"vehicle_id"`
	Model              string  `json:"model"`
	Producer           string  `json:"producer"`
	RetailerID         *string `json:"retailer_id"`
	RetailerName       *string `json:"retailer_name"`
	RentalDays         int     `json:"rental_days"`
	CostPerDay         float64 `json:"cost_per_day"`
	BaseCost           float64 `json:"base_cost"`
	AdditionalCosts    float64 `json:"additional_costs"`
	ServiceCount       int     `json:"additional_services_count"`
	TotalCost          float64 `json:"total_cost"`
	ServiceDescription *string `json:"additional_services_list"`
}
