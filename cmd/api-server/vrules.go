package main

import (
	"context"
	"log/slog"

	"github.com/zeetms/fleet-admin/internal/database"
	"github.com/zeetms/fleet-admin/internal/model"
	"github.com/zeetms/fleet-admin/internal/validator"
)

// Validation rules

func validateEmployeeForm(v *validator.Validator, dto database.InsertEmployeeDTO) {
	v.CheckField(validator.NotBlank(dto.Firstname), "firstname", "cannot be blank")
	v.CheckField(validator.NotBlank(dto.Lastname), "lastname", "cannot be blank")
	v.CheckField(validator.NotBlank(dto.Email), "email", "cannot be blank")
	if validator.NotBlank(dto.Email) {
		v.CheckField(validator.IsEmail(dto.Email), "email", "must be a valid email address")
	}
	v.CheckField(validator.MaxRunes(dto.Firstname, 100), "firstname", "must not be more than 100 characters")
	v.CheckField(validator.MaxRunes(dto.Lastname, 100), "lastname", "must not be more than 100 characters")
}

func validateVehicleForm(v *validator.Validator, dto database.InsertVehicleDTO) {
	v.CheckField(validator.NotBlank(dto.LicensePlate), "license_plate", "cannot be blank")
	v.CheckField(validator.NotBlank(dto.Make), "make", "cannot be blank")
	v.CheckField(validator.NotBlank(dto.Model), "model", "cannot be blank")
	if dto.CapacityKg != nil {
		v.CheckField(*dto.CapacityKg >= 0, "capacity_kg", "must not be negative")
	}
	if dto.VolumeLitre != nil {
		v.CheckField(*dto.VolumeLitre >= 0, "volume_litre", "must not be negative")
	}
}

// checkEmployeeRefs verifies that every provided lookup id points at an
// existing row.
func (app *application) checkEmployeeRefs(ctx context.Context, logger *slog.Logger, v *validator.Validator, dto database.InsertEmployeeDTO) error {
	checks := []struct {
		table string
		field string
		id    *model.ID
	}{
		{"employee_function", "function_id", dto.FunctionID},
		{"employee_status", "status_id", dto.StatusID},
		{"driving_license", "license_id", dto.LicenseID},
	}

	for _, check := range checks {
		if check.id == nil {
			continue
		}

		ok, err := database.NewReferenceDAO(logger, app.db, check.table).Exists(ctx, *check.id)
		if err != nil {
			return err
		}

		v.CheckField(ok, check.field, "invalid "+check.field)
	}

	return nil
}

func (app *application) checkVehicleRefs(ctx context.Context, logger *slog.Logger, v *validator.Validator, dto database.InsertVehicleDTO) error {
	checks := []struct {
		table string
		field string
		id    *model.ID
	}{
		{"vehicle_type", "type_id", dto.TypeID},
		{"vehicle_status", "status_id", dto.StatusID},
		{"insurance", "insurance_id", dto.InsuranceID},
	}

	for _, check := range checks {
		if check.id == nil {
			continue
		}

		ok, err := database.NewReferenceDAO(logger, app.db, check.table).Exists(ctx, *check.id)
		if err != nil {
			return err
		}

		v.CheckField(ok, check.field, "invalid "+check.field)
	}

	return nil
}
