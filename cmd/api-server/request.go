package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zeetms/fleet-admin/internal/model"
)

func employeeIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "employeeId"))
	return model.ID(id), err
}

func vehicleIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "vehicleId"))
	return model.ID(id), err
}

// Multipart form helpers. Absent or empty fields map to nil so the DAO writes
// NULL instead of a zero value.

func formString(r *http.Request, key string) *string {
	val := r.FormValue(key)
	if val == "" {
		return nil
	}
	return &val
}

func formID(r *http.Request, key string) (*model.ID, error) {
	val := r.FormValue(key)
	if val == "" {
		return nil, nil
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	id := model.ID(parsed)
	return &id, nil
}

func formFloat(r *http.Request, key string) (*float64, error) {
	val := r.FormValue(key)
	if val == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	return &parsed, nil
}

func formDate(r *http.Request, key string) (*model.Date, error) {
	val := r.FormValue(key)
	if val == "" {
		return nil, nil
	}

	parsed, err := model.ParseDate(val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	return &parsed, nil
}
