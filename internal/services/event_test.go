package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"danceregistry/internal/domain"
)

func validEvent() *domain.Event {
	return &domain.Event{
		Year:        2026,
		Name:        "Spring Ball 2026",
		Date:        time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC),
		MaxCapacity: 100,
		Price:       120,
		Venue:       "Grand Hall",
		Address:     "1 Main St",
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(e *domain.Event)
		wantErr string
	}{
		{
			name:   "success",
			mutate: func(e *domain.Event) {},
		},
		{
			name:    "year too early",
			mutate:  func(e *domain.Event) { e.Year = 2019 },
			wantErr: "year must be 2020 or later",
		},
		{
			name:    "missing name",
			mutate:  func(e *domain.Event) { e.Name = "  " },
			wantErr: "event name is required",
		},
		{
			name:    "name too long",
			mutate:  func(e *domain.Event) { e.Name = strings.Repeat("x", 101) },
			wantErr: "event name cannot exceed 100 characters",
		},
		{
			name:    "missing date",
			mutate:  func(e *domain.Event) { e.Date = time.Time{} },
			wantErr: "event date is required",
		},
		{
			name:    "zero capacity",
			mutate:  func(e *domain.Event) { e.MaxCapacity = 0 },
			wantErr: "capacity must be at least 1",
		},
		{
			name:    "negative price",
			mutate:  func(e *domain.Event) { e.Price = -1 },
			wantErr: "price cannot be negative",
		},
		{
			name:    "missing venue",
			mutate:  func(e *domain.Event) { e.Venue = "" },
			wantErr: "venue is required",
		},
		{
			name: "description too long",
			mutate: func(e *domain.Event) {
				desc := strings.Repeat("x", 1001)
				e.Description = &desc
			},
			wantErr: "description cannot exceed 1000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			svc := NewEventService(repo)
			e := validEvent()
			tt.mutate(e)
			err := svc.Create(ctx, e)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.True(t, errors.Is(err, domain.ErrValidation))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, e.ID)
			assert.False(t, e.CreatedAt.IsZero())
			assert.False(t, e.UpdatedAt.IsZero())
		})
	}
}

func TestEventService_Create_activeDeactivatesOthers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := NewEventService(repo)

	old := validEvent()
	old.IsActive = true
	require.NoError(t, svc.Create(ctx, old))

	next := validEvent()
	next.Year = 2027
	next.Name = "Spring Ball 2027"
	next.IsActive = true
	require.NoError(t, svc.Create(ctx, next))

	got, err := repo.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, next.ID, active.ID)
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo)
		e := validEvent()
		require.NoError(t, svc.Create(ctx, e))

		newName := "Autumn Ball 2026"
		closed := false
		got, err := svc.Update(ctx, e.ID, &domain.EventUpdate{Name: &newName, RegistrationOpen: &closed})
		require.NoError(t, err)
		assert.Equal(t, newName, got.Name)
		assert.False(t, got.RegistrationOpen)
	})

	t.Run("validation error", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo)
		e := validEvent()
		require.NoError(t, svc.Create(ctx, e))

		badYear := 1999
		got, err := svc.Update(ctx, e.ID, &domain.EventUpdate{Year: &badYear})
		require.True(t, errors.Is(err, domain.ErrValidation))
		assert.Nil(t, got)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepo())
		newName := "Autumn Ball"
		got, err := svc.Update(ctx, "ev-missing", &domain.EventUpdate{Name: &newName})
		require.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Nil(t, got)
	})
}

func TestEventService_Activate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := NewEventService(repo)

	first := validEvent()
	first.IsActive = true
	require.NoError(t, svc.Create(ctx, first))
	second := validEvent()
	second.Year = 2027
	require.NoError(t, svc.Create(ctx, second))

	got, err := svc.Activate(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	old, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	_, err = svc.Activate(ctx, "ev-missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventService_GetActive_none(t *testing.T) {
	svc := NewEventService(newFakeEventRepo())
	got, err := svc.GetActive(context.Background())
	require.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Nil(t, got)
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	e := validEvent()
	require.NoError(t, svc.Create(ctx, e))

	require.NoError(t, svc.Delete(ctx, e.ID))
	_, err := svc.GetByID(ctx, e.ID)
	require.True(t, errors.Is(err, domain.ErrNotFound))

	err = svc.Delete(ctx, "ev-missing")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}
