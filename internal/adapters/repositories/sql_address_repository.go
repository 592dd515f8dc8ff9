package repositories

import (
	"address-book-service/internal/domain"
	"address-book-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const sqlAddressColumns = `
	id, street, city, state, country, postal_code,
	latitude, longitude, created_at, updated_at
`

// SQLAddressRepository is a Postgres-backed AddressRepository using the pgx
// database/sql driver.
type SQLAddressRepository struct {
	DB *sql.DB
}

func NewSQLAddressRepository(db *sql.DB) *SQLAddressRepository {
	return &SQLAddressRepository{DB: db}
}

func (s *SQLAddressRepository) ListAll(ctx context.Context) (_ []domain.Address, err error) {
	defer obs.Time(ctx, "sql.addresses.ListAll")(&err)

	if s.DB == nil {
		return nil, errors.New("sql address repository: db is nil")
	}

	q := `SELECT` + sqlAddressColumns + `FROM addresses ORDER BY id;`
	return s.query(ctx, "list all addresses", q)
}

func (s *SQLAddressRepository) ListWithinBounds(ctx context.Context, b domain.Bounds) (_ []domain.Address, err error) {
	defer obs.Time(ctx, "sql.addresses.ListWithinBounds")(&err)

	if s.DB == nil {
		return nil, errors.New("sql address repository: db is nil")
	}

	q := `SELECT` + sqlAddressColumns + `FROM addresses
	WHERE latitude BETWEEN $1 AND $2
		AND longitude BETWEEN $3 AND $4
	ORDER BY id;`
	return s.query(ctx, "list addresses within bounds", q, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
}

func (s *SQLAddressRepository) List(ctx context.Context, skip, limit int) ([]domain.Address, error) {
	if s.DB == nil {
		return nil, errors.New("sql address repository: db is nil")
	}

	q := `SELECT` + sqlAddressColumns + `FROM addresses ORDER BY id LIMIT $1 OFFSET $2;`
	return s.query(ctx, "list addresses", q, limit, skip)
}

func (s *SQLAddressRepository) Get(ctx context.Context, id int64) (domain.Address, error) {
	if s.DB == nil {
		return domain.Address{}, errors.New("sql address repository: db is nil")
	}

	q := `SELECT` + sqlAddressColumns + `FROM addresses WHERE id = $1;`
	a, err := scanSQLAddress(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	if err != nil {
		return domain.Address{}, fmt.Errorf("get address: scan row: %w", err)
	}
	return a, nil
}

func (s *SQLAddressRepository) Create(ctx context.Context, a domain.Address) (domain.Address, error) {
	if s.DB == nil {
		return domain.Address{}, errors.New("sql address repository: db is nil")
	}

	q := `
	INSERT INTO addresses (street, city, state, country, postal_code, latitude, longitude, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING` + sqlAddressColumns + `;`

	created, err := scanSQLAddress(s.DB.QueryRowContext(ctx, q,
		a.Street, a.City, nullString(a.State), a.Country, nullString(a.PostalCode),
		a.Location.Lat, a.Location.Lon, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	))
	if err != nil {
		return domain.Address{}, fmt.Errorf("create address: insert: %w", err)
	}
	return created, nil
}

func (s *SQLAddressRepository) Update(ctx context.Context, a domain.Address) (domain.Address, error) {
	if s.DB == nil {
		return domain.Address{}, errors.New("sql address repository: db is nil")
	}

	q := `
	UPDATE addresses SET
		street = $1,
		city = $2,
		state = $3,
		country = $4,
		postal_code = $5,
		latitude = $6,
		longitude = $7,
		updated_at = $8
	WHERE id = $9
	RETURNING` + sqlAddressColumns + `;`

	updated, err := scanSQLAddress(s.DB.QueryRowContext(ctx, q,
		a.Street, a.City, nullString(a.State), a.Country, nullString(a.PostalCode),
		a.Location.Lat, a.Location.Lon, a.UpdatedAt.UTC(), a.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, fmt.Errorf("update address id=%d: %w", a.ID, domain.ErrAddressNotFound)
	}
	if err != nil {
		return domain.Address{}, fmt.Errorf("update address id=%d: %w", a.ID, err)
	}
	return updated, nil
}

func (s *SQLAddressRepository) Delete(ctx context.Context, id int64) error {
	if s.DB == nil {
		return errors.New("sql address repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete address id=%d: %w", id, err)
	}
	if err := requireOneRow(res); err != nil {
		return fmt.Errorf("delete address id=%d: %w", id, err)
	}
	return nil
}

func (s *SQLAddressRepository) query(ctx context.Context, op, q string, args ...any) ([]domain.Address, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query addresses table: %w", op, err)
	}
	defer rows.Close()

	out := make([]domain.Address, 0, 64)
	for rows.Next() {
		a, err := scanSQLAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan rows: %w", op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return out, nil
}

func scanSQLAddress(r rowScanner) (domain.Address, error) {
	var (
		a             domain.Address
		state, postal sql.NullString
	)
	if err := r.Scan(
		&a.ID, &a.Street, &a.City, &state, &a.Country, &postal,
		&a.Location.Lat, &a.Location.Lon, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return domain.Address{}, err
	}

	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	a.State = stringPtr(state)
	a.PostalCode = stringPtr(postal)
	return a, nil
}
