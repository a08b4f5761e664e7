package model

// Document-store mirror of the relational schema.  Persons embed their
// optional roles and bank account; bookings denormalize customer, vehicle
// and retailer snapshots plus the attached services.  Snapshot fields are
// frozen at migration or creation time and deliberately do NOT follow
// later relational-side edits.
//
// Cost fields that originate from DECIMAL columns are typed `any`: the
// migration writes numbers, but documents may carry strings or nulls from
// older copies, so every read goes through repository.AsNumber.

// PersonDoc is a persons-collection document.
type PersonDoc struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"name"`
	PhoneNumber *string         `bson:"phone_number"`
	EMail       *string         `bson:"eMail"`
	Address     *string         `bson:"address"`
	Stars       *float64        `bson:"stars"`
	Roles       PersonRoles     `bson:"roles"`
	BankAccount *BankAccountDoc `bson:"bankAccount"`
}

// PersonRoles groups the optional role sub-documents.  A nil pointer means
// the person does not hold that role.
type PersonRoles struct {
	Customer *CustomerRole `bson:"customer"`
	Retailer *RetailerRole `bson:"retailer"`
}

// CustomerRole mirrors the Customer table inside a person document.
type CustomerRole struct {
	CustomerNumber      string `bson:"customer_number"`
	DriverLicenceNumber string `bson:"driver_licencse_number"`
}

// RetailerRole mirrors the Retailer table inside a person document.
type RetailerRole struct {
	CompanyName string `bson:"company_name"`
	TaxNumber   string `bson:"tax_number"`
}

// BankAccountDoc mirrors the Bankaccount table inside a person document.
type BankAccountDoc struct {
	AccountID string `bson:"account_id"`
	IBAN      string `bson:"iban"`
	BIC       string `bson:"bic"`
}

// VehicleDoc is a vehicles-collection document.
type VehicleDoc struct {
	ID            string `bson:"_id"`
	Model         string `bson:"model"`
	Producer      string `bson:"producer"`
	CostsPerDay   any    `bson:"costs_per_day"`
	PlateNumber   string `bson:"plate_number"`
	NumberOfSeats int    `bson:"number_of_seats"`
	RetailerID    string `bson:"retailer_id"`
}

// ServiceDoc is a services-collection document.
type ServiceDoc struct {
	ID          string `bson:"_id"`
	Description string `bson:"description"`
	Costs       any    `bson:"costs"`
}

// RatingDoc is a ratings-collection document keyed by the rater/rated pair.
type RatingDoc struct {
	ID    RatingKey `bson:"_id"`
	Stars float64   `bson:"stars"`
}

// RatingKey is the compound _id of a rating document.
type RatingKey struct {
	RaterID string `bson:"rater_id"`
	RatedID string `bson:"rated_id"`
}

// BookingDoc is a bookings-collection document.  Everything needed to
// price and display the booking is embedded.
type BookingDoc struct {
	ID                 string            `bson:"_id"`
	StartDate          string            `bson:"start_date"`
	EndDate            string            `bson:"end_date"`
	WayOfBilling       string            `bson:"way_of_billing"`
	Customer           CustomerRef       `bson:"customer"`
	Vehicle            VehicleSnapshot   `bson:"vehicle"`
	Retailer           *RetailerSnapshot `bson:"retailer"`
	AdditionalServices []ServiceSnapshot `bson:"additionalServices"`
	Pricing            Pricing           `bson:"pricing"`
}

// CustomerRef is the customer snapshot inside a booking document.
type CustomerRef struct {
	PersonID string `bson:"person_id"`
	Name     string `bson:"name"`
}

// VehicleSnapshot is the vehicle as it looked when the booking was written.
type VehicleSnapshot struct {
	VehicleID     string `bson:"vehicle_id"`
	Model         string `bson:"model"`
	Producer      string `bson:"producer"`
	CostsPerDay   any    `bson:"costs_per_day"`
	PlateNumber   string `bson:"plate_number,omitempty"`
	NumberOfSeats int    `bson:"number_of_seats,omitempty"`
	RetailerID    string `bson:"retailer_id,omitempty"`
}

// RetailerSnapshot identifies the vehicle's retailer at booking time.
type RetailerSnapshot struct {
	PersonID    string  `bson:"person_id"`
	CompanyName *string `bson:"company_name"`
}

// ServiceSnapshot is one attached service inside a booking document.
type ServiceSnapshot struct {
	ServiceID   string `bson:"service_id"`
	Description string `bson:"description"`
	Costs       any    `bson:"costs"`
}

// Pricing carries the persisted cost total of a booking document.
type Pricing struct {
	TotalCosts float64 `bson:"total_costs"`
}
