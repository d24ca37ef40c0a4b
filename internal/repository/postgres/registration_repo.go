package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"danceregistry/internal/domain"
)

const registrationColumns = `id, first_name, last_name, email, phone, experience, dietary_restrictions, emergency_name, emergency_phone, emergency_relationship, notes, payment_status, event_id, event_year, event_date, price, registration_date, created_at, updated_at`

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var dietNull, notesNull sql.NullString
	var ecName, ecPhone, ecRel sql.NullString
	err := row.Scan(
		&reg.ID, &reg.FirstName, &reg.LastName, &reg.Email, &reg.Phone,
		&reg.Experience, &dietNull, &ecName, &ecPhone, &ecRel, &notesNull,
		&reg.PaymentStatus, &reg.EventID, &reg.EventYear, &reg.EventDate,
		&reg.Price, &reg.RegistrationDate, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dietNull.Valid {
		reg.DietaryRestrictions = &dietNull.String
	}
	if notesNull.Valid {
		reg.Notes = &notesNull.String
	}
	if ecName.Valid || ecPhone.Valid || ecRel.Valid {
		reg.EmergencyContact = &domain.EmergencyContact{
			Name:         ecName.String,
			Phone:        ecPhone.String,
			Relationship: ecRel.String,
		}
	}
	return reg, nil
}

// Create inserts the registration. The email is stored lowercased;
// a unique-index conflict maps to domain.ErrDuplicateEmail.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))

	var ecName, ecPhone, ecRel *string
	if ec := reg.EmergencyContact; ec != nil {
		ecName, ecPhone, ecRel = &ec.Name, &ec.Phone, &ec.Relationship
	}
	query := `
		INSERT INTO registrations (id, first_name, last_name, email, phone, experience, dietary_restrictions, emergency_name, emergency_phone, emergency_relationship, notes, payment_status, event_id, event_year, event_date, price, registration_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.DB.ExecContext(ctx, query,
		reg.ID, reg.FirstName, reg.LastName, reg.Email, reg.Phone,
		string(reg.Experience), reg.DietaryRestrictions, ecName, ecPhone, ecRel,
		reg.Notes, string(reg.PaymentStatus), reg.EventID, reg.EventYear,
		reg.EventDate, reg.Price, reg.RegistrationDate, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// filterClauses builds the WHERE clauses and args for a listing filter.
func filterClauses(filter domain.RegistrationFilter) ([]string, []any) {
	var where []string
	var args []any
	n := 1
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
		args = append(args, "%"+filter.Search+"%")
		n++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("payment_status = $%d", n))
		args = append(args, string(filter.Status))
		n++
	}
	if filter.Experience != "" {
		where = append(where, fmt.Sprintf("experience = $%d", n))
		args = append(args, string(filter.Experience))
		n++
	}
	return where, args
}

func (r *registrationRepository) Find(ctx context.Context, filter domain.RegistrationFilter, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	where, args := filterClauses(filter)
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM registrations` + whereSQL
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM registrations%s ORDER BY registration_date DESC LIMIT $%d OFFSET $%d`,
		registrationColumns, whereSQL, len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, query, append(args, p.PageSize, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	return regs, total, rows.Err()
}

func (r *registrationRepository) CountOccupied(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM registrations
		WHERE event_id = $1 AND payment_status NOT IN ('cancelled', 'waiting')
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// statsClauses builds the WHERE clauses and args for a stats filter.
func statsClauses(filter domain.StatsFilter) ([]string, []any) {
	var where []string
	var args []any
	if filter.EventID != "" {
		where = append(where, fmt.Sprintf("event_id = $%d", len(args)+1))
		args = append(args, filter.EventID)
	} else if filter.EventYear != 0 {
		where = append(where, fmt.Sprintf("event_year = $%d", len(args)+1))
		args = append(args, filter.EventYear)
	}
	return where, args
}

func (r *registrationRepository) CountByStatus(ctx context.Context, filter domain.StatsFilter) (*domain.StatusCounts, error) {
	where, args := statsClauses(filter)
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE payment_status = 'paid'),
			COUNT(*) FILTER (WHERE payment_status = 'pending'),
			COUNT(*) FILTER (WHERE payment_status = 'cancelled'),
			COUNT(*) FILTER (WHERE payment_status = 'waiting'),
			COUNT(*) FILTER (WHERE payment_status NOT IN ('cancelled', 'waiting'))
		FROM registrations` + whereSQL
	counts := &domain.StatusCounts{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&counts.Total, &counts.Paid, &counts.Pending,
		&counts.Cancelled, &counts.Waiting, &counts.Occupied,
	)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *registrationRepository) ExperienceBreakdown(ctx context.Context, filter domain.StatsFilter) ([]*domain.ExperienceCount, error) {
	where, args := statsClauses(filter)
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}
	query := `SELECT experience, COUNT(*) FROM registrations` + whereSQL + ` GROUP BY experience ORDER BY experience`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*domain.ExperienceCount, 0)
	for rows.Next() {
		ec := &domain.ExperienceCount{}
		if err := rows.Scan(&ec.Experience, &ec.Count); err != nil {
			return nil, err
		}
		stats = append(stats, ec)
	}
	return stats, rows.Err()
}

func (r *registrationRepository) ListRecent(ctx context.Context, filter domain.StatsFilter, limit int) ([]*domain.Registration, error) {
	where, args := statsClauses(filter)
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}
	query := fmt.Sprintf(`SELECT %s FROM registrations%s ORDER BY registration_date DESC LIMIT $%d`,
		registrationColumns, whereSQL, len(args)+1)
	rows, err := r.DB.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Registration, error) {
	query := `
		UPDATE registrations SET payment_status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, string(status), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM registrations WHERE id = $1`
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
