package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/zeetms/fleet-admin/internal/model"
)

// ReferenceDAO reads one of the static lookup tables. All lookup tables share
// the same (id, name, descript) shape.
type ReferenceDAO struct {
	Logger *slog.Logger
	table  string
	*DB
}

func NewReferenceDAO(logger *slog.Logger, db *DB, table string) *ReferenceDAO {
	return &ReferenceDAO{
		Logger: logger.With("dao", table),
		table:  table,
		DB:     db,
	}
}

func (dao *ReferenceDAO) List(ctx context.Context) ([]model.Reference, error) {
	logger := dao.Logger.With("query", "list")

	query, args, err := dao.Builder.
		Select("*").
		From(dao.table).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	refs := make([]model.Reference, 0)
	if err := dao.SelectContext(ctx, &refs, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	return refs, nil
}

func (dao *ReferenceDAO) Get(ctx context.Context, id model.ID) (model.Reference, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From(dao.table).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reference{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var ref model.Reference
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&ref); err != nil {
		if IsNoRows(err) {
			return model.Reference{}, model.NewError(dao.table, model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Reference{}, err
	}

	return ref, nil
}

func (dao *ReferenceDAO) IDByName(ctx context.Context, name string) (model.ID, error) {
	logger := dao.Logger.With("query", "idByName")

	query, args, err := dao.Builder.
		Select("id").
		From(dao.table).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		if IsNoRows(err) {
			return 0, model.NewError(dao.table, model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	return id, nil
}

func (dao *ReferenceDAO) Exists(ctx context.Context, id model.ID) (bool, error) {
	_, err := dao.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}
