package model

import "time"

type ID = uint

// Reference is a row of one of the static lookup tables (employee functions
// and statuses, driving licenses, vehicle types and statuses, insurances,
// roles). These tables are never mutated by the business logic.
type Reference struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Name     string  `json:"name" db:"name"`
	Descript *string `json:"descript,omitempty" db:"descript"`
}

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Username       string  `json:"username" db:"username"`
	HashedPassword string  `json:"-" db:"hashed_password"`
	Descript       *string `json:"descript,omitempty" db:"descript"`
	IsActive       bool    `json:"is_active" db:"is_active"`
	RoleID         ID      `json:"role_id" db:"role_id"`
}

type Employee struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Firstname string `json:"firstname" db:"firstname"`
	Lastname  string `json:"lastname" db:"lastname"`
	Email     string `json:"email" db:"email"`

	BirthDate *Date `json:"birth_date" db:"birth_date"`
	HireDate  *Date `json:"hire_date" db:"hire_date"`

	FunctionID *ID `json:"function_id" db:"function_id"`
	StatusID   *ID `json:"status_id" db:"status_id"`
	LicenseID  *ID `json:"license_id" db:"license_id"`

	Line1      *string `json:"line1" db:"line1"`
	Line2      *string `json:"line2" db:"line2"`
	Line3      *string `json:"line3" db:"line3"`
	PostalCode *string `json:"postalcode" db:"postalcode"`
	Town       *string `json:"town" db:"town"`
	State      *string `json:"state" db:"state"`
	Country    *string `json:"country" db:"country"`

	PhotoFile *string `json:"photo_file" db:"photo_file"`
}

type Vehicle struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	LicensePlate string  `json:"license_plate" db:"license_plate"`
	Make         string  `json:"make" db:"make"`
	Model        string  `json:"model" db:"model"`
	Color        *string `json:"color" db:"color"`

	TypeID      *ID `json:"type_id" db:"type_id"`
	StatusID    *ID `json:"status_id" db:"status_id"`
	InsuranceID *ID `json:"insurance_id" db:"insurance_id"`

	CapacityKg  *float64 `json:"capacity_kg" db:"capacity_kg"`
	VolumeLitre *float64 `json:"volume_litre" db:"volume_litre"`

	PhotoFile *string `json:"photo_file" db:"photo_file"`
}

// Assignment is one row of the custody ledger. A row with no end date is the
// active assignment for its vehicle; once the end date is set the row is
// immutable history.
type Assignment struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	EmployeeID ID         `json:"employee_id" db:"employee_id"`
	VehicleID  ID         `json:"vehicle_id" db:"vehicle_id"`
	EndDate    *time.Time `json:"end_date" db:"end_date"`
}

func (a Assignment) Active() bool {
	return a.EndDate == nil
}

type StatusCount struct {
	StatusName string `json:"status_name" db:"status_name"`
	Count      int    `json:"count" db:"count"`
}
