package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zeetms/fleet-admin/internal/database"
	"github.com/zeetms/fleet-admin/internal/model"
	"github.com/zeetms/fleet-admin/internal/response"
)

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

// handleReferenceList serves one of the static lookup tables.
func (app *application) handleReferenceList(table string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := app.requestLogger(r)

		dao := database.NewReferenceDAO(logger, app.db, table)

		refs, err := dao.List(ctx)
		if err != nil {
			app.serverError(w, r, err)
			return
		}

		resp := make([]referenceResponse, 0, len(refs))
		for _, ref := range refs {
			resp = append(resp, toReferenceResponse(ref))
		}

		if err := response.JSON(w, http.StatusOK, resp); err != nil {
			app.serverError(w, r, err)
		}
	}
}

func (app *application) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	path, err := app.uploads.Path(chi.URLParam(r, "filename"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.notFound(w, r)
			return
		}

		app.serverError(w, r, err)
		return
	}

	http.ServeFile(w, r, path)
}

func (app *application) handleVehicleStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := app.reports.VehicleStatusDistribution(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, counts); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleEmployeeStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := app.reports.EmployeeStatusDistribution(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, counts); err != nil {
		app.serverError(w, r, err)
	}
}
