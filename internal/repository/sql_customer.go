package repository

import (
	"context"
	"database/sql"
)

// ListReservationCustomers returns every customer ordered by name.  The
// bank account is joined optionally: the reservation workflow lists
// customers without one (nil IBAN), which is a deliberate asymmetry with
// the service workflow's listing.
func (s *SQLStore) ListReservationCustomers(ctx context.Context) ([]ReservationCustomer, error) {
	const q = `SELECT p.id, p.name, c.customer_number, c.driver_licencse_number, b.iban
		FROM Customer c
		JOIN Person p ON p.id = c.person_id
		LEFT JOIN Bankaccount b ON b.person_id = c.person_id
		ORDER BY p.name`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReservationCustomer{}
	for rows.Next() {
		var rc ReservationCustomer
		var iban sql.NullString
		if err := rows.Scan(&rc.PersonID, &rc.Name, &rc.CustomerNumber, &rc.DriverLicenceNumber, &iban); err != nil {
			return nil, err
		}
		if iban.Valid {
			v := iban.String
			rc.IBAN = &v
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// ListServiceCustomers returns customers that have a bank account on
// file, ordered by name, with full contact and payment details.  The
// service workflow charges the account, so customers without one are
// excluded here.
func (s *SQLStore) ListServiceCustomers(ctx context.Context) ([]ServiceCustomer, error) {
	const q = `SELECT
			p.id,
			p.name,
			p.eMail,
			p.phone_number,
			p.address,
			c.customer_number,
			c.driver_licencse_number,
			b.account_id,
			b.iban,
			b.bic
		FROM Customer c
		JOIN Person p ON p.id = c.person_id
		JOIN Bankaccount b ON b.person_id = c.person_id
		ORDER BY p.name`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ServiceCustomer{}
	for rows.Next() {
		var sc ServiceCustomer
		var email, phone, addr sql.NullString
		if err := rows.Scan(&sc.PersonID, &sc.Name, &email, &phone, &addr,
			&sc.CustomerNumber, &sc.DriverLicenceNumber, &sc.AccountID, &sc.IBAN, &sc.BIC); err != nil {
			return nil, err
		}
		sc.EMail = nullable(email)
		sc.PhoneNumber = nullable(phone)
		sc.Address = nullable(addr)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// nullable converts a NullString to a *string for JSON output.
func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
