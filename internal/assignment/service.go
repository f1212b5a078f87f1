// Package assignment maintains the vehicle custody ledger: at most one open
// assignment per vehicle, opened by Assign and closed exactly once by
// Unassign. Closed rows are immutable history.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeetms/fleet-admin/internal/model"
)

// Ledger is the custody history store.
type Ledger interface {
	ActiveByVehicle(ctx context.Context, vehicleID model.ID) (model.Assignment, error)
	ActiveByEmployee(ctx context.Context, employeeID model.ID) (model.Assignment, error)
	Open(ctx context.Context, employeeID, vehicleID model.ID) (model.Assignment, error)
	Close(ctx context.Context, id model.ID, end time.Time) (model.Assignment, error)
}

// Directory resolves employee and vehicle identities.
type Directory interface {
	GetEmployee(ctx context.Context, id model.ID) (model.Employee, error)
	GetVehicle(ctx context.Context, id model.ID) (model.Vehicle, error)
}

type Service struct {
	logger    *slog.Logger
	ledger    Ledger
	directory Directory
	now       func() time.Time
}

func NewService(logger *slog.Logger, ledger Ledger, directory Directory) *Service {
	return &Service{
		logger:    logger.With("service", "assignment"),
		ledger:    ledger,
		directory: directory,
		now:       time.Now,
	}
}

// Assign opens a new ledger row giving the employee custody of the vehicle.
// A vehicle already held by someone fails with ErrConflict naming the current
// holder. The vehicle's own status code is deliberately left untouched.
func (s *Service) Assign(ctx context.Context, employeeID, vehicleID model.ID) (model.Assignment, error) {
	if _, err := s.directory.GetEmployee(ctx, employeeID); err != nil {
		return model.Assignment{}, err
	}
	if _, err := s.directory.GetVehicle(ctx, vehicleID); err != nil {
		return model.Assignment{}, err
	}

	current, err := s.ledger.ActiveByVehicle(ctx, vehicleID)
	switch {
	case err == nil:
		return model.Assignment{}, s.holderConflict(ctx, current)
	case !errors.Is(err, model.ErrNotFound):
		return model.Assignment{}, err
	}

	opened, err := s.ledger.Open(ctx, employeeID, vehicleID)
	if err != nil {
		// A concurrent assign may win between the check and the insert; the
		// store's unique index reports it as a conflict.
		if errors.Is(err, model.ErrConflict) {
			if current, activeErr := s.ledger.ActiveByVehicle(ctx, vehicleID); activeErr == nil {
				return model.Assignment{}, s.holderConflict(ctx, current)
			}
		}
		return model.Assignment{}, err
	}

	s.logger.Info("vehicle assigned",
		"assignmentId", opened.ID, "employeeId", employeeID, "vehicleId", vehicleID)

	return opened, nil
}

// Unassign closes the vehicle's active ledger row. A vehicle with no active
// row fails with ErrNotFound; the closed row is never reopened.
func (s *Service) Unassign(ctx context.Context, vehicleID model.ID) (model.Assignment, error) {
	if _, err := s.directory.GetVehicle(ctx, vehicleID); err != nil {
		return model.Assignment{}, err
	}

	current, err := s.ledger.ActiveByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Assignment{}, fmt.Errorf("vehicle is not currently assigned: %w", model.ErrNotFound)
		}
		return model.Assignment{}, err
	}

	closed, err := s.ledger.Close(ctx, current.ID, s.now())
	if err != nil {
		return model.Assignment{}, err
	}

	s.logger.Info("vehicle unassigned",
		"assignmentId", closed.ID, "employeeId", closed.EmployeeID, "vehicleId", vehicleID)

	return closed, nil
}

// GuardEmployeeDelete rejects deletion of an employee that currently holds a
// vehicle, naming the vehicle.
func (s *Service) GuardEmployeeDelete(ctx context.Context, employeeID model.ID) error {
	current, err := s.ledger.ActiveByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}

	vehicle, err := s.directory.GetVehicle(ctx, current.VehicleID)
	if err != nil {
		return err
	}

	return fmt.Errorf("employee is currently assigned to vehicle %s %s: %w",
		vehicle.Make, vehicle.LicensePlate, model.ErrConflict)
}

// GuardVehicleDelete rejects deletion of a vehicle that is currently held,
// naming the holder.
func (s *Service) GuardVehicleDelete(ctx context.Context, vehicleID model.ID) error {
	current, err := s.ledger.ActiveByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.holderConflict(ctx, current)
}

func (s *Service) holderConflict(ctx context.Context, current model.Assignment) error {
	holder, err := s.directory.GetEmployee(ctx, current.EmployeeID)
	if err != nil {
		return err
	}

	return fmt.Errorf("vehicle is already assigned to %s %s: %w",
		holder.Firstname, holder.Lastname, model.ErrConflict)
}
