package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/zeetms/fleet-admin/internal/model"
)

type EmployeeDAO struct {
	Logger *slog.Logger
	*DB
}

func NewEmployeeDAO(logger *slog.Logger, db *DB) *EmployeeDAO {
	return &EmployeeDAO{
		Logger: logger.With("dao", "employee"),
		DB:     db,
	}
}

// EmployeeRow is an employee joined with its lookup names and, when an active
// ledger row exists, the make and plate of the vehicle it currently holds.
// An employee may hold several vehicles; only the oldest active row is joined.
type EmployeeRow struct {
	model.Employee
	FunctionName  *string `db:"function_name"`
	StatusName    *string `db:"status_name"`
	LicenseName   *string `db:"license_name"`
	AssignedMake  *string `db:"assigned_make"`
	AssignedPlate *string `db:"assigned_plate"`
}

func (dao *EmployeeDAO) selectEmployees() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"e.*",
			"f.name AS function_name",
			"s.name AS status_name",
			"l.name AS license_name",
			"v.make AS assigned_make",
			"v.license_plate AS assigned_plate",
		).
		From("employees e").
		LeftJoin("employee_function f ON f.id = e.function_id").
		LeftJoin("employee_status s ON s.id = e.status_id").
		LeftJoin("driving_license l ON l.id = e.license_id").
		JoinClause(`LEFT JOIN LATERAL (
			SELECT a.vehicle_id FROM vehicle_assignments a
			WHERE a.employee_id = e.id AND a.end_date IS NULL
			ORDER BY a.created_at ASC LIMIT 1
		) active ON TRUE`).
		LeftJoin("vehicles v ON v.id = active.vehicle_id")
}

func (dao *EmployeeDAO) List(ctx context.Context) ([]EmployeeRow, error) {
	logger := dao.Logger.With("query", "list")

	query, args, err := dao.selectEmployees().
		OrderBy("e.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	employees := make([]EmployeeRow, 0)
	if err := dao.SelectContext(ctx, &employees, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	logger.Debug("success query execute", "countEmployees", len(employees))

	return employees, nil
}

func (dao *EmployeeDAO) Get(ctx context.Context, id model.ID) (EmployeeRow, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.selectEmployees().
		Where(squirrel.Eq{"e.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return EmployeeRow{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var employee EmployeeRow
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&employee); err != nil {
		if IsNoRows(err) {
			return EmployeeRow{}, model.NewError("employee", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return EmployeeRow{}, err
	}

	return employee, nil
}

type InsertEmployeeDTO struct {
	Firstname string
	Lastname  string
	Email     string

	BirthDate *model.Date
	HireDate  *model.Date

	FunctionID *model.ID
	StatusID   *model.ID
	LicenseID  *model.ID

	Line1      *string
	Line2      *string
	Line3      *string
	PostalCode *string
	Town       *string
	State      *string
	Country    *string

	PhotoFile *string
}

func (dao *EmployeeDAO) Insert(ctx context.Context, dto InsertEmployeeDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("employees").
		Columns(
			"firstname", "lastname", "email", "birth_date", "hire_date",
			"function_id", "status_id", "license_id",
			"line1", "line2", "line3", "postalcode", "town", "state", "country",
			"photo_file",
		).
		Values(
			dto.Firstname, dto.Lastname, dto.Email, dto.BirthDate, dto.HireDate,
			dto.FunctionID, dto.StatusID, dto.LicenseID,
			dto.Line1, dto.Line2, dto.Line3, dto.PostalCode, dto.Town, dto.State, dto.Country,
			dto.PhotoFile,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("employee", model.ErrExists)
		}

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

// UpdateEmployeeDTO carries the full replacement state for a PUT. PhotoFile
// is applied only when set, so an update without a new upload keeps the
// stored photo.
type UpdateEmployeeDTO struct {
	Firstname string
	Lastname  string
	Email     string

	BirthDate *model.Date
	HireDate  *model.Date

	FunctionID *model.ID
	StatusID   *model.ID
	LicenseID  *model.ID

	Line1      *string
	Line2      *string
	Line3      *string
	PostalCode *string
	Town       *string
	State      *string
	Country    *string

	PhotoFile *string
}

func (dao *EmployeeDAO) Update(ctx context.Context, id model.ID, dto UpdateEmployeeDTO) error {
	logger := dao.Logger.With("query", "update")

	data := map[string]any{
		"updated_at":  time.Now(),
		"firstname":   dto.Firstname,
		"lastname":    dto.Lastname,
		"email":       dto.Email,
		"birth_date":  dto.BirthDate,
		"hire_date":   dto.HireDate,
		"function_id": dto.FunctionID,
		"status_id":   dto.StatusID,
		"license_id":  dto.LicenseID,
		"line1":       dto.Line1,
		"line2":       dto.Line2,
		"line3":       dto.Line3,
		"postalcode":  dto.PostalCode,
		"town":        dto.Town,
		"state":       dto.State,
		"country":     dto.Country,
	}
	if dto.PhotoFile != nil {
		data["photo_file"] = *dto.PhotoFile
	}

	query, args, err := dao.Builder.
		Update("employees").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return model.NewError("employee", model.ErrExists)
		}

		return err
	}

	logger.Debug("success query execute", "updateId", id)

	return nil
}

func (dao *EmployeeDAO) purgeAssignmentsQuery(id model.ID) (string, []any, error) {
	return dao.Builder.
		Delete("vehicle_assignments").
		Where(squirrel.Eq{"employee_id": id}).
		ToSql()
}

// DeleteWithHistory removes an employee together with its closed ledger rows
// in a single transaction. Callers must have checked the deletion guard
// first; without the purge the ledger's foreign key would reject any
// employee that ever held a vehicle.
func (dao *EmployeeDAO) DeleteWithHistory(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "deleteWithHistory")

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	purge, purgeArgs, err := dao.purgeAssignmentsQuery(id)
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", purge, "args", purgeArgs)

	if _, err := tx.ExecContext(ctx, purge, purgeArgs...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	del, delArgs, err := dao.Builder.
		Delete("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", del, "args", delArgs)

	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Debug("success query execute", "deleteId", id)

	return nil
}

// StatusDistribution counts employees per status. Statuses with no employees
// report zero.
func (dao *EmployeeDAO) StatusDistribution(ctx context.Context) ([]model.StatusCount, error) {
	logger := dao.Logger.With("query", "statusDistribution")

	query, args, err := dao.Builder.
		Select("s.name AS status_name", "COUNT(e.id) AS count").
		From("employee_status s").
		LeftJoin("employees e ON e.status_id = s.id").
		GroupBy("s.id", "s.name").
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	counts := make([]model.StatusCount, 0)
	if err := dao.SelectContext(ctx, &counts, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	return counts, nil
}
