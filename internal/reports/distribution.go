// Package reports derives read-only fleet statistics from the entity store
// and the custody ledger.
package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeetms/fleet-admin/internal/model"
)

// Well-known vehicle status names the distribution arithmetic depends on.
const (
	StatusAvailable   = "disponible"
	StatusMaintenance = "maintenance"
	StatusAssigned    = "assigne"
)

// VehicleCensus counts vehicles per classification bucket.
type VehicleCensus interface {
	StatusIDByName(ctx context.Context, name string) (model.ID, error)
	CountAssigned(ctx context.Context, assignedStatusID model.ID) (int, error)
	CountAvailable(ctx context.Context, availableStatusID model.ID) (int, error)
	CountByStatus(ctx context.Context, statusID model.ID) (int, error)
}

// EmployeeCensus counts employees per status.
type EmployeeCensus interface {
	StatusDistribution(ctx context.Context) ([]model.StatusCount, error)
}

type Service struct {
	logger    *slog.Logger
	vehicles  VehicleCensus
	employees EmployeeCensus
}

func NewService(logger *slog.Logger, vehicles VehicleCensus, employees EmployeeCensus) *Service {
	return &Service{
		logger:    logger.With("service", "reports"),
		vehicles:  vehicles,
		employees: employees,
	}
}

// VehicleStatusDistribution classifies the fleet into Available, In
// Maintenance and Assigned buckets. Assigned and In Maintenance may overlap
// for a vehicle flagged maintenance while holding an active assignment; that
// double count is the documented behavior of the distribution, not a defect.
func (s *Service) VehicleStatusDistribution(ctx context.Context) ([]model.StatusCount, error) {
	availableID, err := s.statusID(ctx, StatusAvailable)
	if err != nil {
		return nil, err
	}
	maintenanceID, err := s.statusID(ctx, StatusMaintenance)
	if err != nil {
		return nil, err
	}

	var missing []string
	if availableID == 0 {
		missing = append(missing, "'"+StatusAvailable+"'")
	}
	if maintenanceID == 0 {
		missing = append(missing, "'"+StatusMaintenance+"'")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required vehicle status names %s not found", strings.Join(missing, ", "))
	}

	// The assigned code is allowed to be absent; id 0 matches no vehicle, so
	// the status-code leg of the Assigned bucket simply contributes nothing.
	assignedID, err := s.statusID(ctx, StatusAssigned)
	if err != nil {
		return nil, err
	}

	available, err := s.vehicles.CountAvailable(ctx, availableID)
	if err != nil {
		return nil, err
	}
	maintenance, err := s.vehicles.CountByStatus(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.vehicles.CountAssigned(ctx, assignedID)
	if err != nil {
		return nil, err
	}

	return []model.StatusCount{
		{StatusName: "Available", Count: available},
		{StatusName: "In Maintenance", Count: maintenance},
		{StatusName: "Assigned", Count: assigned},
	}, nil
}

func (s *Service) EmployeeStatusDistribution(ctx context.Context) ([]model.StatusCount, error) {
	return s.employees.StatusDistribution(ctx)
}

func (s *Service) statusID(ctx context.Context, name string) (model.ID, error) {
	id, err := s.vehicles.StatusIDByName(ctx, name)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, model.ErrNotFound):
		return 0, nil
	default:
		return 0, err
	}
}
