package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeetms/fleet-admin/internal/model"
)

type fakeVehicleCensus struct {
	statusIDs map[string]model.ID

	available   int
	maintenance int
	assigned    int

	assignedCalledWith model.ID
}

func (c *fakeVehicleCensus) StatusIDByName(_ context.Context, name string) (model.ID, error) {
	id, ok := c.statusIDs[name]
	if !ok {
		return 0, model.NewError("vehicle_status", model.ErrNotFound)
	}
	return id, nil
}

func (c *fakeVehicleCensus) CountAssigned(_ context.Context, assignedStatusID model.ID) (int, error) {
	c.assignedCalledWith = assignedStatusID
	return c.assigned, nil
}

func (c *fakeVehicleCensus) CountAvailable(_ context.Context, _ model.ID) (int, error) {
	return c.available, nil
}

func (c *fakeVehicleCensus) CountByStatus(_ context.Context, _ model.ID) (int, error) {
	return c.maintenance, nil
}

type fakeEmployeeCensus struct {
	counts []model.StatusCount
}

func (c *fakeEmployeeCensus) StatusDistribution(_ context.Context) ([]model.StatusCount, error) {
	return c.counts, nil
}

func newTestService(vehicles *fakeVehicleCensus, employees *fakeEmployeeCensus) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, vehicles, employees)
}

func TestService_VehicleStatusDistribution(t *testing.T) {
	ctx := context.Background()

	t.Run("buckets in fixed order", func(t *testing.T) {
		census := &fakeVehicleCensus{
			statusIDs:   map[string]model.ID{StatusAvailable: 1, StatusMaintenance: 2, StatusAssigned: 3},
			available:   4,
			maintenance: 2,
			assigned:    5,
		}
		service := newTestService(census, &fakeEmployeeCensus{})

		counts, err := service.VehicleStatusDistribution(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.StatusCount{
			{StatusName: "Available", Count: 4},
			{StatusName: "In Maintenance", Count: 2},
			{StatusName: "Assigned", Count: 5},
		}, counts)
		assert.Equal(t, model.ID(3), census.assignedCalledWith)
	})

	t.Run("missing well-known codes fail fast", func(t *testing.T) {
		census := &fakeVehicleCensus{statusIDs: map[string]model.ID{}}
		service := newTestService(census, &fakeEmployeeCensus{})

		_, err := service.VehicleStatusDistribution(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'disponible'")
		assert.Contains(t, err.Error(), "'maintenance'")
	})

	t.Run("missing maintenance code only", func(t *testing.T) {
		census := &fakeVehicleCensus{statusIDs: map[string]model.ID{StatusAvailable: 1}}
		service := newTestService(census, &fakeEmployeeCensus{})

		_, err := service.VehicleStatusDistribution(ctx)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "'disponible'")
		assert.Contains(t, err.Error(), "'maintenance'")
	})

	t.Run("absent assigned code matches nothing", func(t *testing.T) {
		census := &fakeVehicleCensus{
			statusIDs: map[string]model.ID{StatusAvailable: 1, StatusMaintenance: 2},
			assigned:  1,
		}
		service := newTestService(census, &fakeEmployeeCensus{})

		counts, err := service.VehicleStatusDistribution(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.ID(0), census.assignedCalledWith)
		assert.Equal(t, 1, counts[2].Count)
	})
}

func TestService_EmployeeStatusDistribution(t *testing.T) {
	employees := &fakeEmployeeCensus{counts: []model.StatusCount{
		{StatusName: "actif", Count: 7},
		{StatusName: "conge", Count: 0},
	}}
	service := newTestService(&fakeVehicleCensus{}, employees)

	counts, err := service.EmployeeStatusDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, employees.counts, counts)
}
