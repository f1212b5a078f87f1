package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/zeetms/fleet-admin/internal/model"
)

type VehicleDAO struct {
	Logger *slog.Logger
	*DB
}

func NewVehicleDAO(logger *slog.Logger, db *DB) *VehicleDAO {
	return &VehicleDAO{
		Logger: logger.With("dao", "vehicle"),
		DB:     db,
	}
}

// VehicleRow is a vehicle joined with its lookup names and, when an active
// ledger row exists, the name of the employee currently holding it. The
// partial unique index guarantees at most one active row per vehicle, so the
// join cannot duplicate vehicles.
type VehicleRow struct {
	model.Vehicle
	TypeName        *string `db:"type_name"`
	StatusName      *string `db:"status_name"`
	InsuranceRef    *string `db:"insurance_ref"`
	HolderFirstname *string `db:"holder_firstname"`
	HolderLastname  *string `db:"holder_lastname"`
}

func (dao *VehicleDAO) selectVehicles() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"v.*",
			"t.name AS type_name",
			"s.name AS status_name",
			"i.name AS insurance_ref",
			"e.firstname AS holder_firstname",
			"e.lastname AS holder_lastname",
		).
		From("vehicles v").
		LeftJoin("vehicle_type t ON t.id = v.type_id").
		LeftJoin("vehicle_status s ON s.id = v.status_id").
		LeftJoin("insurance i ON i.id = v.insurance_id").
		LeftJoin("vehicle_assignments a ON a.vehicle_id = v.id AND a.end_date IS NULL").
		LeftJoin("employees e ON e.id = a.employee_id")
}

func (dao *VehicleDAO) List(ctx context.Context) ([]VehicleRow, error) {
	logger := dao.Logger.With("query", "list")

	query, args, err := dao.selectVehicles().
		OrderBy("v.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	vehicles := make([]VehicleRow, 0)
	if err := dao.SelectContext(ctx, &vehicles, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	logger.Debug("success query execute", "countVehicles", len(vehicles))

	return vehicles, nil
}

func (dao *VehicleDAO) Get(ctx context.Context, id model.ID) (VehicleRow, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.selectVehicles().
		Where(squirrel.Eq{"v.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return VehicleRow{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var vehicle VehicleRow
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&vehicle); err != nil {
		if IsNoRows(err) {
			return VehicleRow{}, model.NewError("vehicle", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return VehicleRow{}, err
	}

	return vehicle, nil
}

type InsertVehicleDTO struct {
	LicensePlate string
	Make         string
	Model        string
	Color        *string

	TypeID      *model.ID
	StatusID    *model.ID
	InsuranceID *model.ID

	CapacityKg  *float64
	VolumeLitre *float64

	PhotoFile *string
}

func (dao *VehicleDAO) Insert(ctx context.Context, dto InsertVehicleDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("vehicles").
		Columns(
			"license_plate", "make", "model", "color",
			"type_id", "status_id", "insurance_id",
			"capacity_kg", "volume_litre", "photo_file",
		).
		Values(
			dto.LicensePlate, dto.Make, dto.Model, dto.Color,
			dto.TypeID, dto.StatusID, dto.InsuranceID,
			dto.CapacityKg, dto.VolumeLitre, dto.PhotoFile,
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
			return 0, model.NewError("vehicle", model.ErrExists)
		}

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

// UpdateVehicleDTO carries the full replacement state for a PUT. PhotoFile is
// applied only when set.
type UpdateVehicleDTO struct {
	LicensePlate string
	Make         string
	Model        string
	Color        *string

	TypeID      *model.ID
	StatusID    *model.ID
	InsuranceID *model.ID

	CapacityKg  *float64
	VolumeLitre *float64

	PhotoFile *string
}

func (dao *VehicleDAO) Update(ctx context.Context, id model.ID, dto UpdateVehicleDTO) error {
	logger := dao.Logger.With("query", "update")

	data := map[string]any{
		"updated_at":    time.Now(),
		"license_plate": dto.LicensePlate,
		"make":          dto.Make,
		"model":         dto.Model,
		"color":         dto.Color,
		"type_id":       dto.TypeID,
		"status_id":     dto.StatusID,
		"insurance_id":  dto.InsuranceID,
		"capacity_kg":   dto.CapacityKg,
		"volume_litre":  dto.VolumeLitre,
	}
	if dto.PhotoFile != nil {
		data["photo_file"] = *dto.PhotoFile
	}

	query, args, err := dao.Builder.
		Update("vehicles").
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
			return model.NewError("vehicle", model.ErrExists)
		}

		return err
	}

	logger.Debug("success query execute", "updateId", id)

	return nil
}

// DeleteWithHistory removes a vehicle together with its historical ledger
// rows in a single transaction. Callers must have checked the deletion guard
// first; an active row would violate the ledger's foreign key expectations
// silently otherwise.
func (dao *VehicleDAO) DeleteWithHistory(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "deleteWithHistory")

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	purge, purgeArgs, err := dao.Builder.
		Delete("vehicle_assignments").
		Where(squirrel.Eq{"vehicle_id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", purge, "args", purgeArgs)

	if _, err := tx.ExecContext(ctx, purge, purgeArgs...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	del, delArgs, err := dao.Builder.
		Delete("vehicles").
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

func (dao *VehicleDAO) StatusIDByName(ctx context.Context, name string) (model.ID, error) {
	return NewReferenceDAO(dao.Logger, dao.DB, "vehicle_status").IDByName(ctx, name)
}

func (dao *VehicleDAO) countAssignedQuery(assignedStatusID model.ID) (string, []any, error) {
	return dao.Builder.
		Select("COUNT(DISTINCT v.id)").
		From("vehicles v").
		LeftJoin("vehicle_assignments a ON a.vehicle_id = v.id AND a.end_date IS NULL").
		Where(squirrel.Or{
			squirrel.NotEq{"a.id": nil},
			squirrel.Eq{"v.status_id": assignedStatusID},
		}).
		ToSql()
}

// CountAssigned counts vehicles that either hold an active ledger row or
// carry the well-known "assigned" status code. COUNT(DISTINCT) keeps a
// vehicle matching both signals counted once.
func (dao *VehicleDAO) CountAssigned(ctx context.Context, assignedStatusID model.ID) (int, error) {
	logger := dao.Logger.With("query", "countAssigned")

	query, args, err := dao.countAssignedQuery(assignedStatusID)
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var count int
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&count); err != nil {
		logger.Warn("failed query execute", "error", err)
		return 0, err
	}

	return count, nil
}

// CountAvailable counts vehicles carrying the "available" status code that
// hold no active ledger row.
func (dao *VehicleDAO) CountAvailable(ctx context.Context, availableStatusID model.ID) (int, error) {
	logger := dao.Logger.With("query", "countAvailable")

	query, args, err := dao.Builder.
		Select("COUNT(v.id)").
		From("vehicles v").
		LeftJoin("vehicle_assignments a ON a.vehicle_id = v.id AND a.end_date IS NULL").
		Where(squirrel.Eq{"v.status_id": availableStatusID}).
		Where(squirrel.Eq{"a.id": nil}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var count int
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&count); err != nil {
		logger.Warn("failed query execute", "error", err)
		return 0, err
	}

	return count, nil
}

func (dao *VehicleDAO) CountByStatus(ctx context.Context, statusID model.ID) (int, error) {
	logger := dao.Logger.With("query", "countByStatus")

	query, args, err := dao.Builder.
		Select("COUNT(*)").
		From("vehicles").
		Where(squirrel.Eq{"status_id": statusID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var count int
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&count); err != nil {
		logger.Warn("failed query execute", "error", err)
		return 0, err
	}

	return count, nil
}
