package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FabianClaudioMaier/IMSE-MS2/internal/model"
)

// ListReservationCustomers returns persons holding the customer role,
// ordered by name.  A missing bankAccount sub-document yields a nil IBAN
// rather than excluding the person, mirroring the relational variant's
// optional join.
func (m *MongoStore) ListReservationCustomers(ctx context.Context) ([]ReservationCustomer, error) {
	persons, err := m.coll(ctx, collPersons)
	if err != nil {
		return nil, err
	}

	cur, err := persons.Find(ctx,
		bson.M{"roles.customer": bson.M{"$ne": nil}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, nosqlErr(err)
	}
	defer cur.Close(ctx)

	out := []ReservationCustomer{}
	for cur.Next(ctx) {
		var p model.PersonDoc
		if err := cur.Decode(&p); err != nil {
			return nil, nosqlErr(err)
		}
		rc := ReservationCustomer{PersonID: p.ID, Name: p.Name}
		if p.Roles.Customer != nil {
			rc.CustomerNumber = p.Roles.Customer.CustomerNumber
			rc.DriverLicenceNumber = p.Roles.Customer.DriverLicenceNumber
		}
		if p.BankAccount != nil {
			iban := p.BankAccount.IBAN
			rc.IBAN = &iban
		}
		out = append(out, rc)
	}
	return out, nosqlErr(cur.Err())
}

// ListServiceCustomers returns persons holding the customer role that
// also embed a bank account, ordered by name.
func (m *MongoStore) ListServiceCustomers(ctx context.Context) ([]ServiceCustomer, error) {
	persons, err := m.coll(ctx, collPersons)
	if err != nil {
		return nil, err
	}

	cur, err := persons.Find(ctx,
		bson.M{
			"roles.customer": bson.M{"$ne": nil},
			"bankAccount":    bson.M{"$ne": nil},
		},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, nosqlErr(err)
	}
	defer cur.Close(ctx)

	out := []ServiceCustomer{}
	for cur.Next(ctx) {
		var p model.PersonDoc
		if err := cur.Decode(&p); err != nil {
			return nil, nosqlErr(err)
		}
		sc := ServiceCustomer{
			PersonID:    p.ID,
			Name:        p.Name,
			EMail:       p.EMail,
			PhoneNumber: p.PhoneNumber,
			Address:     p.Address,
		}
		if p.Roles.Customer != nil {
			sc.CustomerNumber = p.Roles.Customer.CustomerNumber
			sc.DriverLicenceNumber = p.Roles.Customer.DriverLicenceNumber
		}
		if p.BankAccount != nil {
			sc.AccountID = p.BankAccount.AccountID
			sc.IBAN = p.BankAccount.IBAN
			sc.BIC = p.BankAccount.BIC
		}
		out = append(out, sc)
	}
	return out, nosqlErr(cur.Err())
}
