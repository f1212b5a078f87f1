package main

import (
	"errors"
	"net/http"

	"github.com/zeetms/fleet-admin/internal/database"
	"github.com/zeetms/fleet-admin/internal/model"
	"github.com/zeetms/fleet-admin/internal/response"
	"github.com/zeetms/fleet-admin/internal/validator"
)

const _maxUploadMemory = 32 << 20

func (app *application) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	dao := database.NewEmployeeDAO(logger, app.db)

	employees, err := dao.List(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	resp := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		resp = append(resp, toEmployeeResponse(employee))
	}

	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewEmployeeDAO(logger, app.db)

	employee, err := dao.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, toEmployeeResponse(employee)); err != nil {
		app.serverError(w, r, err)
	}
}

// employeeDTOFromForm maps the multipart form onto an insert DTO. Empty
// optional fields become NULLs.
func employeeDTOFromForm(r *http.Request) (database.InsertEmployeeDTO, error) {
	dto := database.InsertEmployeeDTO{
		Firstname:  r.FormValue("firstname"),
		Lastname:   r.FormValue("lastname"),
		Email:      r.FormValue("email"),
		Line1:      formString(r, "line1"),
		Line2:      formString(r, "line2"),
		Line3:      formString(r, "line3"),
		PostalCode: formString(r, "postalcode"),
		Town:       formString(r, "town"),
		State:      formString(r, "state"),
		Country:    formString(r, "country"),
	}

	var err error
	if dto.BirthDate, err = formDate(r, "birth_date"); err != nil {
		return dto, err
	}
	if dto.HireDate, err = formDate(r, "hire_date"); err != nil {
		return dto, err
	}
	if dto.FunctionID, err = formID(r, "function_id"); err != nil {
		return dto, err
	}
	if dto.StatusID, err = formID(r, "status_id"); err != nil {
		return dto, err
	}
	if dto.LicenseID, err = formID(r, "license_id"); err != nil {
		return dto, err
	}

	return dto, nil
}

// savePhotoFromForm stores the uploaded photo, if any, and returns the stored
// file name.
func (app *application) savePhotoFromForm(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	stored, err := app.uploads.Save(header.Filename, file)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (app *application) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	if err := r.ParseMultipartForm(_maxUploadMemory); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dto, err := employeeDTOFromForm(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateEmployeeForm(&v, dto)

	if err := app.checkEmployeeRefs(ctx, logger, &v, dto); err != nil {
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

	dao := database.NewEmployeeDAO(logger, app.db)

	employeeID, err := dao.Insert(ctx, dto)
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

	employee, err := dao.Get(ctx, employeeID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, toEmployeeResponse(employee)); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewEmployeeDAO(logger, app.db)

	existing, err := dao.Get(ctx, employeeID)
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

	dto, err := employeeDTOFromForm(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateEmployeeForm(&v, dto)

	if err := app.checkEmployeeRefs(ctx, logger, &v, dto); err != nil {
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

	updateDTO := database.UpdateEmployeeDTO(dto)
	updateDTO.PhotoFile = photo

	if err := dao.Update(ctx, employeeID, updateDTO); err != nil {
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

	// A replaced photo leaves the old file orphaned on disk.
	if photo != nil && existing.PhotoFile != nil {
		app.uploads.Remove(*existing.PhotoFile)
	}

	employee, err := dao.Get(ctx, employeeID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, toEmployeeResponse(employee)); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewEmployeeDAO(logger, app.db)

	employee, err := dao.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := app.assignments.GuardEmployeeDelete(ctx, employeeID); err != nil {
		if errors.Is(err, model.ErrConflict) {
			app.conflict(w, r, err)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := dao.DeleteWithHistory(ctx, employeeID); err != nil {
		app.serverError(w, r, err)
		return
	}

	if employee.PhotoFile != nil {
		app.uploads.Remove(*employee.PhotoFile)
	}

	w.WriteHeader(http.StatusNoContent)
}
