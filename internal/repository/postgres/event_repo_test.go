package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"danceregistry/internal/domain"
)

var eventCols = []string{
	"id", "year", "name", "date", "max_capacity", "is_active",
	"registration_open", "waiting_list_enabled", "price", "venue",
	"address", "description", "created_at", "updated_at",
}

func eventRow(id string, year int, name string, active bool) *sqlmock.Rows {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(eventCols).
		AddRow(id, year, name, ts, 100, active, true, true, 120.0, "Grand Hall", "1 Main St", nil, ts, ts)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success inactive",
			event: &domain.Event{
				ID:          "ev-1",
				Year:        2026,
				Name:        "Spring Ball 2026",
				Date:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				MaxCapacity: 100,
				Venue:       "Grand Hall",
				Address:     "1 Main St",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantErr: false,
		},
		{
			name: "active event deactivates others in same tx",
			event: &domain.Event{
				ID:          "ev-2",
				Year:        2026,
				Name:        "Spring Ball 2026",
				Date:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				MaxCapacity: 100,
				IsActive:    true,
				Venue:       "Grand Hall",
				Address:     "1 Main St",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE events SET is_active = FALSE`).
					WithArgs("ev-2").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				ID:   "ev-3",
				Year: 2026,
				Name: "Spring Ball 2026",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Create_generatesID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO events`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewEventRepository(db)
	e := &domain.Event{Year: 2026, Name: "Spring Ball 2026"}
	require.NoError(t, repo.Create(context.Background(), e))
	require.NotEmpty(t, e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantName   string
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, year, name, date, max_capacity`).
					WithArgs("ev-1").
					WillReturnRows(eventRow("ev-1", 2026, "Spring Ball 2026", true))
			},
			wantName: "Spring Ball 2026",
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, year, name, date, max_capacity`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr:    true,
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantName, got.Name)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, year, name, date, max_capacity.* FROM events WHERE is_active`).
			WillReturnRows(eventRow("ev-1", 2026, "Spring Ball 2026", true))

		repo := NewEventRepository(db)
		got, err := repo.GetActive(ctx)
		require.NoError(t, err)
		require.True(t, got.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none active", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, year, name, date, max_capacity.* FROM events WHERE is_active`).
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		got, err := repo.GetActive(ctx)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(eventCols).
		AddRow("ev-2", 2026, "Spring Ball 2026", ts, 100, true, true, true, 120.0, "Grand Hall", "1 Main St", nil, ts, ts).
		AddRow("ev-1", 2025, "Spring Ball 2025", ts, 80, false, false, true, 100.0, "Grand Hall", "1 Main St", "Sold out.", ts, ts)
	mock.ExpectQuery(`SELECT id, year, name, date, max_capacity.* FROM events ORDER BY year DESC`).
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 2026, got[0].Year)
	require.Nil(t, got[0].Description)
	require.NotNil(t, got[1].Description)
	require.Equal(t, "Sold out.", *got[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	newName := "Autumn Ball 2026"
	active := true

	t.Run("partial update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1`).
			WithArgs(newName, "ev-1").
			WillReturnRows(eventRow("ev-1", 2026, newName, false))
		mock.ExpectCommit()

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", &domain.EventUpdate{Name: &newName})
		require.NoError(t, err)
		require.Equal(t, newName, got.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("activating update deactivates others", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE events SET is_active = FALSE`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), is_active = \$1`).
			WithArgs(true, "ev-1").
			WillReturnRows(eventRow("ev-1", 2026, "Spring Ball 2026", true))
		mock.ExpectCommit()

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", &domain.EventUpdate{IsActive: &active})
		require.NoError(t, err)
		require.True(t, got.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1`).
			WithArgs(newName, "ev-missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-missing", &domain.EventUpdate{Name: &newName})
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no fields fetches current row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, year, name, date, max_capacity`).
			WithArgs("ev-1").
			WillReturnRows(eventRow("ev-1", 2026, "Spring Ball 2026", false))

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", &domain.EventUpdate{})
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE events SET is_active = FALSE`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`UPDATE events SET is_active = TRUE`).
			WithArgs("ev-1").
			WillReturnRows(eventRow("ev-1", 2026, "Spring Ball 2026", true))
		mock.ExpectCommit()

		repo := NewEventRepository(db)
		got, err := repo.Activate(ctx, "ev-1")
		require.NoError(t, err)
		require.True(t, got.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE events SET is_active = FALSE`).
			WithArgs("ev-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`UPDATE events SET is_active = TRUE`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		repo := NewEventRepository(db)
		got, err := repo.Activate(ctx, "ev-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
