package main

import (
	"fmt"

	"github.com/zeetms/fleet-admin/internal/database"
	"github.com/zeetms/fleet-admin/internal/model"
)

// Response records are the API's wire shapes. Each one is produced by exactly
// one mapping function so a field rename happens in one place.

type employeeResponse struct {
	ID        model.ID    `json:"id"`
	Firstname string      `json:"firstname"`
	Lastname  string      `json:"lastname"`
	Email     string      `json:"email"`
	BirthDate *model.Date `json:"birth_date"`
	HireDate  *model.Date `json:"hire_date"`

	FunctionID   *model.ID `json:"function_id"`
	FunctionName *string   `json:"function_name"`
	StatusID     *model.ID `json:"status_id"`
	StatusName   *string   `json:"status_name"`
	LicenseID    *model.ID `json:"license_id"`
	LicenseName  *string   `json:"license_name"`

	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	Line3      *string `json:"line3"`
	PostalCode *string `json:"postalcode"`
	Town       *string `json:"town"`
	State      *string `json:"state"`
	Country    *string `json:"country"`

	PhotoFile       *string `json:"photo_file"`
	AssignedVehicle *string `json:"assigned_vehicle"`
}

func toEmployeeResponse(row database.EmployeeRow) employeeResponse {
	resp := employeeResponse{
		ID:           row.ID,
		Firstname:    row.Firstname,
		Lastname:     row.Lastname,
		Email:        row.Email,
		BirthDate:    row.BirthDate,
		HireDate:     row.HireDate,
		FunctionID:   row.FunctionID,
		FunctionName: row.FunctionName,
		StatusID:     row.StatusID,
		StatusName:   row.StatusName,
		LicenseID:    row.LicenseID,
		LicenseName:  row.LicenseName,
		Line1:        row.Line1,
		Line2:        row.Line2,
		Line3:        row.Line3,
		PostalCode:   row.PostalCode,
		Town:         row.Town,
		State:        row.State,
		Country:      row.Country,
		PhotoFile:    row.PhotoFile,
	}

	if row.AssignedMake != nil && row.AssignedPlate != nil {
		label := fmt.Sprintf("%s_%s", *row.AssignedMake, *row.AssignedPlate)
		resp.AssignedVehicle = &label
	}

	return resp
}

type vehicleResponse struct {
	ID           model.ID `json:"id"`
	LicensePlate string   `json:"license_plate"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Color        *string  `json:"color"`

	TypeID       *model.ID `json:"type_id"`
	TypeName     *string   `json:"type_name"`
	StatusID     *model.ID `json:"status_id"`
	StatusName   *string   `json:"status_name"`
	InsuranceID  *model.ID `json:"insurance_id"`
	InsuranceRef *string   `json:"insurance_ref"`

	CapacityKg  *float64 `json:"capacity_kg"`
	VolumeLitre *float64 `json:"volume_litre"`

	PhotoFile  *string `json:"photo_file"`
	AssignedTo *string `json:"assigned_to"`
}

func toVehicleResponse(row database.VehicleRow) vehicleResponse {
	resp := vehicleResponse{
		ID:           row.ID,
		LicensePlate: row.LicensePlate,
		Make:         row.Make,
		Model:        row.Model,
		Color:        row.Color,
		TypeID:       row.TypeID,
		TypeName:     row.TypeName,
		StatusID:     row.StatusID,
		StatusName:   row.StatusName,
		InsuranceID:  row.InsuranceID,
		InsuranceRef: row.InsuranceRef,
		CapacityKg:   row.CapacityKg,
		VolumeLitre:  row.VolumeLitre,
		PhotoFile:    row.PhotoFile,
	}

	if row.HolderFirstname != nil && row.HolderLastname != nil {
		holder := fmt.Sprintf("%s %s", *row.HolderFirstname, *row.HolderLastname)
		resp.AssignedTo = &holder
	}

	return resp
}

type userResponse struct {
	ID       model.ID `json:"id"`
	Username string   `json:"username"`
	Descript *string  `json:"descript"`
	IsActive bool     `json:"is_active"`
	RoleID   model.ID `json:"role_id"`
	RoleName string   `json:"role_name"`
}

func toUserResponse(row database.UserRow) userResponse {
	return userResponse{
		ID:       row.ID,
		Username: row.Username,
		Descript: row.Descript,
		IsActive: row.IsActive,
		RoleID:   row.RoleID,
		RoleName: row.RoleName,
	}
}

type assignmentResponse struct {
	ID         model.ID `json:"id"`
	EmployeeID model.ID `json:"employee_id"`
	VehicleID  model.ID `json:"vehicle_id"`
	StartDate  string   `json:"start_date"`
	EndDate    *string  `json:"end_date"`
}

func toAssignmentResponse(a model.Assignment) assignmentResponse {
	resp := assignmentResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		VehicleID:  a.VehicleID,
		StartDate:  a.CreatedAt.Format("2006-01-02"),
	}

	if a.EndDate != nil {
		end := a.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}

	return resp
}

type referenceResponse struct {
	ID       model.ID `json:"id"`
	Name     string   `json:"name"`
	Descript *string  `json:"descript"`
}

func toReferenceResponse(ref model.Reference) referenceResponse {
	return referenceResponse{
		ID:       ref.ID,
		Name:     ref.Name,
		Descript: ref.Descript,
	}
}
