package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"danceregistry/internal/domain"
)

const eventColumns = `id, year, name, date, max_capacity, is_active, registration_open, waiting_list_enabled, price, venue, address, description, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Year, &e.Name, &e.Date, &e.MaxCapacity,
		&e.IsActive, &e.RegistrationOpen, &e.WaitingListEnabled,
		&e.Price, &e.Venue, &e.Address, &descNull,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	return e, nil
}

// Create inserts the event. When the event is created active, every other
// event is deactivated in the same transaction.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if e.IsActive {
		if err := deactivateOthers(ctx, tx, e.ID); err != nil {
			return err
		}
	}
	query := `
		INSERT INTO events (id, year, name, date, max_capacity, is_active, registration_open, waiting_list_enabled, price, venue, address, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = tx.ExecContext(ctx, query,
		e.ID, e.Year, e.Name, e.Date, e.MaxCapacity,
		e.IsActive, e.RegistrationOpen, e.WaitingListEnabled,
		e.Price, e.Venue, e.Address, e.Description,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetActive(ctx context.Context) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE is_active LIMIT 1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByYear(ctx context.Context, year int) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE year = $1 LIMIT 1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, year))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY year DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update applies the non-nil fields of upd. Setting is_active to true
// deactivates every other event inside the same transaction.
func (r *eventRepository) Update(ctx context.Context, id string, upd *domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(col string, v any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, v)
		n++
	}
	if upd.Year != nil {
		add("year", *upd.Year)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.MaxCapacity != nil {
		add("max_capacity", *upd.MaxCapacity)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if upd.RegistrationOpen != nil {
		add("registration_open", *upd.RegistrationOpen)
	}
	if upd.WaitingListEnabled != nil {
		add("waiting_list_enabled", *upd.WaitingListEnabled)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.Venue != nil {
		add("venue", *upd.Venue)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if upd.IsActive != nil && *upd.IsActive {
		if err := deactivateOthers(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Activate marks the event active and clears the flag on all others in one
// transaction, so concurrent activations cannot leave two events active.
func (r *eventRepository) Activate(ctx context.Context, id string) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := deactivateOthers(ctx, tx, id); err != nil {
		return nil, err
	}
	query := `
		UPDATE events SET is_active = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns
	e, err := scanEvent(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func deactivateOthers(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `UPDATE events SET is_active = FALSE, updated_at = NOW() WHERE is_active AND id <> $1`, id)
	return err
}
