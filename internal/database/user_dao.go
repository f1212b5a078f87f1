package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/zeetms/fleet-admin/internal/model"
)

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

// UserRow is a user joined with its role name.
type UserRow struct {
	model.User
	RoleName string `db:"role_name"`
}

func (dao *UserDAO) List(ctx context.Context) ([]UserRow, error) {
	logger := dao.Logger.With("query", "list")

	query, args, err := dao.Builder.
		Select("u.*", "r.name AS role_name").
		From("users u").
		Join("roles r ON r.id = u.role_id").
		OrderBy("u.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	users := make([]UserRow, 0)
	if err := dao.SelectContext(ctx, &users, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	return users, nil
}

func (dao *UserDAO) GetByUsername(ctx context.Context, username string) (UserRow, error) {
	logger := dao.Logger.With("query", "getByUsername")

	query, args, err := dao.Builder.
		Select("u.*", "r.name AS role_name").
		From("users u").
		Join("roles r ON r.id = u.role_id").
		Where(squirrel.Eq{"u.username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return UserRow{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user UserRow
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return UserRow{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return UserRow{}, err
	}

	return user, nil
}

func (dao *UserDAO) Count(ctx context.Context) (int, error) {
	query, args, err := dao.Builder.
		Select("COUNT(*)").
		From("users").
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

type InsertUserDTO struct {
	Username       string
	HashedPassword string
	Descript       *string
	RoleID         model.ID
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("users").
		Columns("username", "hashed_password", "descript", "role_id").
		Values(dto.Username, dto.HashedPassword, dto.Descript, dto.RoleID).
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
			return 0, model.NewError("user", model.ErrExists)
		}

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}
