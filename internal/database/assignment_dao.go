package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/zeetms/fleet-admin/internal/model"
)

// AssignmentDAO reads and writes the custody ledger. Rows are only ever
// inserted open and closed once; closed rows are never touched again.
type AssignmentDAO struct {
	Logger *slog.Logger
	*DB
}

func NewAssignmentDAO(logger *slog.Logger, db *DB) *AssignmentDAO {
	return &AssignmentDAO{
		Logger: logger.With("dao", "assignment"),
		DB:     db,
	}
}

func (dao *AssignmentDAO) Get(ctx context.Context, id model.ID) (model.Assignment, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("vehicle_assignments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Assignment{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var assignment model.Assignment
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&assignment); err != nil {
		if IsNoRows(err) {
			return model.Assignment{}, model.NewError("assignment", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Assignment{}, err
	}

	return assignment, nil
}

func (dao *AssignmentDAO) ActiveByVehicle(ctx context.Context, vehicleID model.ID) (model.Assignment, error) {
	return dao.active(ctx, squirrel.Eq{"vehicle_id": vehicleID})
}

func (dao *AssignmentDAO) ActiveByEmployee(ctx context.Context, employeeID model.ID) (model.Assignment, error) {
	return dao.active(ctx, squirrel.Eq{"employee_id": employeeID})
}

func (dao *AssignmentDAO) active(ctx context.Context, pred squirrel.Eq) (model.Assignment, error) {
	logger := dao.Logger.With("query", "active")

	query, args, err := dao.Builder.
		Select("*").
		From("vehicle_assignments").
		Where(pred).
		Where(squirrel.Eq{"end_date": nil}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Assignment{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var assignment model.Assignment
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&assignment); err != nil {
		if IsNoRows(err) {
			return model.Assignment{}, model.NewError("assignment", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Assignment{}, err
	}

	return assignment, nil
}

// Open inserts a new active ledger row. The partial unique index turns a
// concurrent open for the same vehicle into ErrConflict; a counterpart
// deleted mid-flight surfaces as ErrNotFound.
func (dao *AssignmentDAO) Open(ctx context.Context, employeeID, vehicleID model.ID) (model.Assignment, error) {
	logger := dao.Logger.With("query", "open")

	query, args, err := dao.Builder.
		Insert("vehicle_assignments").
		Columns("employee_id", "vehicle_id").
		Values(employeeID, vehicleID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.Assignment{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		switch {
		case IsUniqueViolation(err):
			return model.Assignment{}, model.NewError("assignment", model.ErrConflict)
		case IsForeignKeyViolation(err):
			return model.Assignment{}, model.NewError("assignment", model.ErrNotFound)
		}

		return model.Assignment{}, err
	}

	logger.Debug("success query execute", "insertId", id)

	return dao.Get(ctx, id)
}

// Close stamps the end date on an open row, turning it into immutable
// history.
func (dao *AssignmentDAO) Close(ctx context.Context, id model.ID, end time.Time) (model.Assignment, error) {
	logger := dao.Logger.With("query", "close")

	query, args, err := dao.Builder.
		Update("vehicle_assignments").
		SetMap(map[string]any{
			"end_date":   end,
			"updated_at": end,
		}).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"end_date": nil}).
		ToSql()
	if err != nil {
		return model.Assignment{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)
		return model.Assignment{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return model.Assignment{}, err
	}
	if affected == 0 {
		return model.Assignment{}, model.NewError("assignment", model.ErrNotFound)
	}

	return dao.Get(ctx, id)
}
