package assignment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeetms/fleet-admin/internal/model"
)

type fakeLedger struct {
	nextID model.ID
	rows   map[model.ID]*model.Assignment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{nextID: 1, rows: make(map[model.ID]*model.Assignment)}
}

func (l *fakeLedger) ActiveByVehicle(_ context.Context, vehicleID model.ID) (model.Assignment, error) {
	for _, row := range l.rows {
		if row.VehicleID == vehicleID && row.EndDate == nil {
			return *row, nil
		}
	}
	return model.Assignment{}, model.NewError("assignment", model.ErrNotFound)
}

func (l *fakeLedger) ActiveByEmployee(_ context.Context, employeeID model.ID) (model.Assignment, error) {
	for _, row := range l.rows {
		if row.EmployeeID == employeeID && row.EndDate == nil {
			return *row, nil
		}
	}
	return model.Assignment{}, model.NewError("assignment", model.ErrNotFound)
}

func (l *fakeLedger) Open(ctx context.Context, employeeID, vehicleID model.ID) (model.Assignment, error) {
	if _, err := l.ActiveByVehicle(ctx, vehicleID); err == nil {
		return model.Assignment{}, model.NewError("assignment", model.ErrConflict)
	}

	now := time.Now()
	row := &model.Assignment{
		ID:         l.nextID,
		CreatedAt:  now,
		UpdatedAt:  now,
		EmployeeID: employeeID,
		VehicleID:  vehicleID,
	}
	l.rows[row.ID] = row
	l.nextID++

	return *row, nil
}

func (l *fakeLedger) Close(_ context.Context, id model.ID, end time.Time) (model.Assignment, error) {
	row, ok := l.rows[id]
	if !ok || row.EndDate != nil {
		return model.Assignment{}, model.NewError("assignment", model.ErrNotFound)
	}

	row.EndDate = &end
	row.UpdatedAt = end

	return *row, nil
}

func (l *fakeLedger) activeCount(vehicleID model.ID) int {
	count := 0
	for _, row := range l.rows {
		if row.VehicleID == vehicleID && row.EndDate == nil {
			count++
		}
	}
	return count
}

type fakeDirectory struct {
	employees map[model.ID]model.Employee
	vehicles  map[model.ID]model.Vehicle
}

func (d fakeDirectory) GetEmployee(_ context.Context, id model.ID) (model.Employee, error) {
	employee, ok := d.employees[id]
	if !ok {
		return model.Employee{}, model.NewError("employee", model.ErrNotFound)
	}
	return employee, nil
}

func (d fakeDirectory) GetVehicle(_ context.Context, id model.ID) (model.Vehicle, error) {
	vehicle, ok := d.vehicles[id]
	if !ok {
		return model.Vehicle{}, model.NewError("vehicle", model.ErrNotFound)
	}
	return vehicle, nil
}

func newTestService() (*Service, *fakeLedger) {
	ledger := newFakeLedger()
	directory := fakeDirectory{
		employees: map[model.ID]model.Employee{
			1: {ID: 1, Firstname: "Amina", Lastname: "Diallo"},
			2: {ID: 2, Firstname: "Karim", Lastname: "Bensaid"},
		},
		vehicles: map[model.ID]model.Vehicle{
			10: {ID: 10, LicensePlate: "AB-123-CD", Make: "Renault", Model: "Master"},
			11: {ID: 11, LicensePlate: "EF-456-GH", Make: "Peugeot", Model: "Boxer"},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(logger, ledger, directory), ledger
}

func TestService_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("opens an active row", func(t *testing.T) {
		service, ledger := newTestService()

		assignment, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, model.ID(1), assignment.EmployeeID)
		assert.Equal(t, model.ID(10), assignment.VehicleID)
		assert.True(t, assignment.Active())
		assert.Equal(t, 1, ledger.activeCount(10))
	})

	t.Run("unknown employee", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Assign(ctx, 99, 10)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Assign(ctx, 1, 99)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("conflict names the current holder", func(t *testing.T) {
		service, ledger := newTestService()

		first, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)

		_, err = service.Assign(ctx, 2, 10)
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Contains(t, err.Error(), "Amina Diallo")

		// first assignment remains active and untouched
		current, err := ledger.ActiveByVehicle(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, first.ID, current.ID)
		assert.Equal(t, first.EmployeeID, current.EmployeeID)
		assert.Equal(t, 1, ledger.activeCount(10))
	})

	t.Run("employee may hold several vehicles", func(t *testing.T) {
		service, ledger := newTestService()

		_, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)
		_, err = service.Assign(ctx, 1, 11)
		require.NoError(t, err)

		assert.Equal(t, 1, ledger.activeCount(10))
		assert.Equal(t, 1, ledger.activeCount(11))
	})
}

func TestService_Unassign(t *testing.T) {
	ctx := context.Background()

	t.Run("closes the active row once", func(t *testing.T) {
		service, ledger := newTestService()

		end := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		service.now = func() time.Time { return end }

		opened, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)

		closed, err := service.Unassign(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, opened.ID, closed.ID)
		require.NotNil(t, closed.EndDate)
		assert.True(t, closed.EndDate.Equal(end))
		assert.Equal(t, 0, ledger.activeCount(10))
	})

	t.Run("second unassign fails not found and mutates nothing", func(t *testing.T) {
		service, ledger := newTestService()

		_, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)
		closed, err := service.Unassign(ctx, 10)
		require.NoError(t, err)

		_, err = service.Unassign(ctx, 10)
		assert.ErrorIs(t, err, model.ErrNotFound)

		row := ledger.rows[closed.ID]
		assert.True(t, row.EndDate.Equal(*closed.EndDate))
		assert.True(t, row.UpdatedAt.Equal(closed.UpdatedAt))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Unassign(ctx, 99)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("reassign after close opens a fresh row", func(t *testing.T) {
		service, _ := newTestService()

		first, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)
		_, err = service.Unassign(ctx, 10)
		require.NoError(t, err)

		second, err := service.Assign(ctx, 2, 10)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.True(t, second.Active())
	})
}

func TestService_DeletionGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("employee with active assignment", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)

		err = service.GuardEmployeeDelete(ctx, 1)
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Contains(t, err.Error(), "Renault AB-123-CD")
	})

	t.Run("vehicle with active assignment", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)

		err = service.GuardVehicleDelete(ctx, 10)
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Contains(t, err.Error(), "Amina Diallo")
	})

	t.Run("historical assignments do not block", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Assign(ctx, 1, 10)
		require.NoError(t, err)
		_, err = service.Unassign(ctx, 10)
		require.NoError(t, err)

		assert.NoError(t, service.GuardEmployeeDelete(ctx, 1))
		assert.NoError(t, service.GuardVehicleDelete(ctx, 10))
	})

	t.Run("no history at all", func(t *testing.T) {
		service, _ := newTestService()

		assert.NoError(t, service.GuardEmployeeDelete(ctx, 2))
		assert.NoError(t, service.GuardVehicleDelete(ctx, 11))
	})
}
