package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/api/v1/status", app.handleStatus)
	mux.Post("/api/v1/token", app.handleCreateToken)
	mux.Get("/uploads/{filename}", app.handleServeUpload)

	mux.Group(func(mux chi.Router) {
		mux.Use(app.authenticate)

		mux.Get("/api/v1/users/me", app.handleCurrentUser)
	})

	mux.Group(func(mux chi.Router) {
		mux.Use(app.authenticate)
		mux.Use(app.requireAdmin)

		mux.Get("/api/v1/users", app.handleListUsers)
		mux.Post("/api/v1/users", app.handleAddUser)

		mux.Get("/api/v1/employees", app.handleListEmployees)
		mux.Post("/api/v1/employees", app.handleAddEmployee)
		mux.Get("/api/v1/employees/{employeeId}", app.handleGetEmployee)
		mux.Put("/api/v1/employees/{employeeId}", app.handleUpdateEmployee)
		mux.Delete("/api/v1/employees/{employeeId}", app.handleDeleteEmployee)
		mux.Get("/api/v1/employee_status_distribution", app.handleEmployeeStatusCounts)

		mux.Get("/api/v1/employee_functions", app.handleReferenceList("employee_function"))
		mux.Get("/api/v1/employee_statuses", app.handleReferenceList("employee_status"))
		mux.Get("/api/v1/driving_licenses", app.handleReferenceList("driving_license"))

		mux.Get("/api/v1/vehicles", app.handleListVehicles)
		mux.Post("/api/v1/vehicles", app.handleAddVehicle)
		mux.Get("/api/v1/vehicles/{vehicleId}", app.handleGetVehicle)
		mux.Put("/api/v1/vehicles/{vehicleId}", app.handleUpdateVehicle)
		mux.Delete("/api/v1/vehicles/{vehicleId}", app.handleDeleteVehicle)
		mux.Get("/api/v1/vehicle_status_distribution", app.handleVehicleStatusCounts)

		mux.Get("/api/v1/vehicle_types", app.handleReferenceList("vehicle_type"))
		mux.Get("/api/v1/vehicle_statuses", app.handleReferenceList("vehicle_status"))
		mux.Get("/api/v1/insurances", app.handleReferenceList("insurance"))

		mux.Post("/api/v1/vehicle_assign", app.handleAssignVehicle)
		mux.Post("/api/v1/vehicle_unassign", app.handleUnassignVehicle)
	})

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
