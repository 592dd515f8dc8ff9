package repositories

import (
	"address-book-service/internal/domain"
	"address-book-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite stores timestamps as text in this layout, always UTC.
const sqliteTimeLayout = time.RFC3339Nano

const sqliteAddressColumns = `
	id,
	street,
	city,
	state,
	country,
	postal_code,
	latitude,
	longitude,
	created_at,
	updated_at
`

// SQLite-backed implementation of the AddressRepository port.
type SqliteAddressRepository struct{ DB *sql.DB }

func NewSqliteAddressRepository(db *sql.DB) *SqliteAddressRepository {
	return &SqliteAddressRepository{DB: db}
}

// Return all addresses stored in the database.
func (s *SqliteAddressRepository) ListAll(ctx context.Context) (_ []domain.Address, err error) {
	defer obs.Time(ctx, "sqlite.addresses.ListAll")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite address repository: DB is nil")
	}

	q := `SELECT` + sqliteAddressColumns + `FROM addresses ORDER BY id;`
	return s.query(ctx, "list all addresses", q)
}

// Return the addresses whose coordinates fall inside b.
func (s *SqliteAddressRepository) ListWithinBounds(ctx context.Context, b domain.Bounds) (_ []domain.Address, err error) {
	defer obs.Time(ctx, "sqlite.addresses.ListWithinBounds")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite address repository: DB is nil")
	}

	q := `SELECT` + sqliteAddressColumns + `FROM addresses
	WHERE latitude BETWEEN ? AND ?
		AND longitude BETWEEN ? AND ?
	ORDER BY id;`
	return s.query(ctx, "list addresses within bounds", q, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
}

func (s *SqliteAddressRepository) List(ctx context.Context, skip, limit int) ([]domain.Address, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite address repository: DB is nil")
	}

	q := `SELECT` + sqliteAddressColumns + `FROM addresses ORDER BY id LIMIT ? OFFSET ?;`
	return s.query(ctx, "list addresses", q, limit, skip)
}

func (s *SqliteAddressRepository) Get(ctx context.Context, id int64) (domain.Address, error) {
	if s.DB == nil {
		return domain.Address{}, errors.New("sqlite address repository: DB is nil")
	}

	q := `SELECT` + sqliteAddressColumns + `FROM addresses WHERE id = ?;`
	a, err := scanSqliteAddress(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	if err != nil {
		return domain.Address{}, fmt.Errorf("get address: scan row: %w", err)
	}
	return a, nil
}

func (s *SqliteAddressRepository) Create(ctx context.Context, a domain.Address) (domain.Address, error) {
	if s.DB == nil {
		return domain.Address{}, errors.New("sqlite address repository: DB is nil")
	}

	query := `
	INSERT INTO addresses (
		street,
		city,
		state,
		country,
		postal_code,
		latitude,
		longitude,
		created_at,
		updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query,
		a.Street, a.City, nullString(a.State), a.Country, nullString(a.PostalCode),
		a.Location.Lat, a.Location.Lon,
		formatSqliteTime(a.CreatedAt), formatSqliteTime(a.UpdatedAt),
	)
	if err != nil {
		return domain.Address{}, fmt.Errorf("create address: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Address{}, fmt.Errorf("create address: last insert id: %w", err)
	}

	a.ID = id
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (s *SqliteAddressRepository) Update(ctx context.Context, a domain.Address) (domain.Address, error) {
	if s.DB == nil {
		return domain.Address{}, errors.New("sqlite address repository: DB is nil")
	}

	query := `
	UPDATE addresses SET
		street = ?,
		city = ?,
		state = ?,
		country = ?,
		postal_code = ?,
		latitude = ?,
		longitude = ?,
		updated_at = ?
	WHERE id = ?;
	`
	res, err := s.DB.ExecContext(ctx, query,
		a.Street, a.City, nullString(a.State), a.Country, nullString(a.PostalCode),
		a.Location.Lat, a.Location.Lon, formatSqliteTime(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return domain.Address{}, fmt.Errorf("update address id=%d: %w", a.ID, err)
	}
	if err := requireOneRow(res); err != nil {
		return domain.Address{}, fmt.Errorf("update address id=%d: %w", a.ID, err)
	}

	return s.Get(ctx, a.ID)
}

func (s *SqliteAddressRepository) Delete(ctx context.Context, id int64) error {
	if s.DB == nil {
		return errors.New("sqlite address repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM addresses WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete address id=%d: %w", id, err)
	}
	if err := requireOneRow(res); err != nil {
		return fmt.Errorf("delete address id=%d: %w", id, err)
	}
	return nil
}

func (s *SqliteAddressRepository) query(ctx context.Context, op, q string, args ...any) ([]domain.Address, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query addresses table: %w", op, err)
	}
	defer rows.Close()

	addrs := make([]domain.Address, 0, 64)
	for rows.Next() {
		a, err := scanSqliteAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return addrs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSqliteAddress(r rowScanner) (domain.Address, error) {
	var (
		a                domain.Address
		state, postal    sql.NullString
		created, updated string
	)
	if err := r.Scan(
		&a.ID, &a.Street, &a.City, &state, &a.Country, &postal,
		&a.Location.Lat, &a.Location.Lon, &created, &updated,
	); err != nil {
		return domain.Address{}, err
	}

	var err error
	if a.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
		return domain.Address{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if a.UpdatedAt, err = time.Parse(sqliteTimeLayout, updated); err != nil {
		return domain.Address{}, fmt.Errorf("parse updated_at %q: %w", updated, err)
	}
	a.State = stringPtr(state)
	a.PostalCode = stringPtr(postal)
	return a, nil
}

func formatSqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}
