package main

import (
	"errors"
	"net/http"

	"github.com/zeetms/fleet-admin/internal/database"
	"github.com/zeetms/fleet-admin/internal/model"
	"github.com/zeetms/fleet-admin/internal/request"
	"github.com/zeetms/fleet-admin/internal/response"
	"github.com/zeetms/fleet-admin/internal/validator"
)

func (app *application) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	dao := database.NewVehicleDAO(logger, app.db)

	vehicles, err := dao.List(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	resp := make([]vehicleResponse, 0, len(vehicles))
	for _, vehicle := range vehicles {
		resp = append(resp, toVehicleResponse(vehicle))
	}

	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	vehicleID, err := vehicleIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewVehicleDAO(logger, app.db)

	vehicle, err := dao.Get(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, toVehicleResponse(vehicle)); err != nil {
		app.serverError(w, r, err)
	}
}

func vehicleDTOFromForm(r *http.Request) (database.InsertVehicleDTO, error) {
	dto := database.InsertVehicleDTO{
		LicensePlate: r.FormValue("license_plate"),
		Make:         r.FormValue("make"),
		Model:        r.FormValue("model"),
		Color:        formString(r, "color"),
	}

	var err error
	if dto.TypeID, err = formID(r, "type_id"); err != nil {
		return dto, err
	}
	if dto.StatusID, err = formID(r, "status_id"); err != nil {
		return dto, err
	}
	if dto.InsuranceID, err = formID(r, "insurance_id"); err != nil {
		return dto, err
	}
	if dto.CapacityKg, err = formFloat(r, "capacity_kg"); err != nil {
		return dto, err
	}
	if dto.VolumeLitre, err = formFloat(r, "volume_litre"); err != nil {
		return dto, err
	}

	return dto, nil
}

func (app *application) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	if err := r.ParseMultipartForm(_maxUploadMemory); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dto, err := vehicleDTOFromForm(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateVehicleForm(&v, dto)

	if err := app.checkVehicleRefs(ctx, logger, &v, dto); err != nil {
		app.serverError(w, r, err)
		return
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if dto.PhotoFile, err = app.savePhotoFromForm(r); err != nil {
		app.serverError(w, r, err)
		return
	}

	dao := database.NewVehicleDAO(logger, app.db)

	vehicleID, err := dao.Insert(ctx, dto)
	if err != nil {
		if dto.PhotoFile != nil {
			app.uploads.Remove(*dto.PhotoFile)
		}

		if errors.Is(err, model.ErrExists) {
			app.conflict(w, r, err)
			return
		}

		app.serverError(w, r, err)
		return
	}

	vehicle, err := dao.Get(ctx, vehicleID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, toVehicleResponse(vehicle)); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	vehicleID, err := vehicleIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewVehicleDAO(logger, app.db)

	existing, err := dao.Get(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(_maxUploadMemory); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dto, err := vehicleDTOFromForm(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateVehicleForm(&v, dto)

	if err := app.checkVehicleRefs(ctx, logger, &v, dto); err != nil {
		app.serverError(w, r, err)
		return
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	photo, err := app.savePhotoFromForm(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	updateDTO := database.UpdateVehicleDTO(dto)
	updateDTO.PhotoFile = photo

	if err := dao.Update(ctx, vehicleID, updateDTO); err != nil {
		if photo != nil {
			app.uploads.Remove(*photo)
		}

		if errors.Is(err, model.ErrExists) {
			app.conflict(w, r, err)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if photo != nil && existing.PhotoFile != nil {
		app.uploads.Remove(*existing.PhotoFile)
	}

	vehicle, err := dao.Get(ctx, vehicleID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, toVehicleResponse(vehicle)); err != nil {
		app.serverError(w, r, err)
	}
}

// handleDeleteVehicle removes the vehicle and its full custody history. An
// active assignment blocks the deletion; closed rows go with the vehicle.
func (app *application) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	vehicleID, err := vehicleIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewVehicleDAO(logger, app.db)

	vehicle, err := dao.Get(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := app.assignments.GuardVehicleDelete(ctx, vehicleID); err != nil {
		if errors.Is(err, model.ErrConflict) {
			app.conflict(w, r, err)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := dao.DeleteWithHistory(ctx, vehicleID); err != nil {
		app.serverError(w, r, err)
		return
	}

	if vehicle.PhotoFile != nil {
		app.uploads.Remove(*vehicle.PhotoFile)
	}

	w.WriteHeader(http.StatusNoContent)
}

type requestAssignVehicle struct {
	EmployeeID model.ID `json:"employee_id"`
	VehicleID  model.ID `json:"vehicle_id"`
}

func (app *application) handleAssignVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestAssignVehicle
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(input.EmployeeID != 0, "employee_id", "cannot be blank")
	v.CheckField(input.VehicleID != 0, "vehicle_id", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	opened, err := app.assignments.Assign(ctx, input.EmployeeID, input.VehicleID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, model.ErrConflict):
			app.conflict(w, r, err)
		default:
			app.serverError(w, r, err)
		}
		return
	}

	if err := response.JSON(w, http.StatusCreated, toAssignmentResponse(opened)); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUnassignVehicle struct {
	VehicleID model.ID `json:"vehicle_id"`
}

func (app *application) handleUnassignVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestUnassignVehicle
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(input.VehicleID != 0, "vehicle_id", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	closed, err := app.assignments.Unassign(ctx, input.VehicleID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, model.ErrConflict):
			app.conflict(w, r, err)
		default:
			app.serverError(w, r, err)
		}
		return
	}

	if err := response.JSON(w, http.StatusOK, toAssignmentResponse(closed)); err != nil {
		app.serverError(w, r, err)
	}
}
