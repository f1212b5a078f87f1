package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/zeetms/fleet-admin/internal/auth"
	"github.com/zeetms/fleet-admin/internal/ctxstore"
	"github.com/zeetms/fleet-admin/internal/database"
	"github.com/zeetms/fleet-admin/internal/model"
	"github.com/zeetms/fleet-admin/internal/request"
	"github.com/zeetms/fleet-admin/internal/response"
	"github.com/zeetms/fleet-admin/internal/validator"
)

type requestCreateToken struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type responseCreateToken struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        userResponse `json:"user"`
}

func (app *application) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	var input requestCreateToken
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Username), "username", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Password), "password", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewUserDAO(logger, app.db)

	// Failed lookups, bad passwords and disabled accounts all report the same
	// message so the response does not leak which usernames exist.
	user, err := dao.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.unauthorized(w, r, "invalid credentials")
			return
		}

		app.serverError(w, r, err)
		return
	}

	if !user.IsActive || !app.auth.CheckPassword(input.Password, user.HashedPassword) {
		app.unauthorized(w, r, "invalid credentials")
		return
	}

	token, err := app.auth.GenerateToken(user.Username, user.RoleName)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	claims, err := app.auth.ValidateToken(token)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	resp := responseCreateToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt,
		User:        toUserResponse(user),
	}

	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	claims := ctxstore.MustFrom[auth.Claims](ctx, _claimsKey)

	dao := database.NewUserDAO(logger, app.db)

	user, err := dao.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.unauthorized(w, r, "unknown user")
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, toUserResponse(user)); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	dao := database.NewUserDAO(logger, app.db)

	users, err := dao.List(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddUser struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Descript *string  `json:"descript"`
	RoleID   model.ID `json:"role_id"`
}

func (app *application) handleAddUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	var input requestAddUser
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Username), "username", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Password), "password", "cannot be blank")
	v.CheckField(validator.MinRunes(input.Password, 8), "password", "must be at least 8 characters")
	v.CheckField(input.RoleID != 0, "role_id", "cannot be blank")

	if input.RoleID != 0 {
		ok, err := database.NewReferenceDAO(logger, app.db, "roles").Exists(ctx, input.RoleID)
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		v.CheckField(ok, "role_id", "invalid role_id")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	hash, err := app.auth.HashPassword(input.Password)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	dao := database.NewUserDAO(logger, app.db)

	if _, err := dao.Insert(ctx, database.InsertUserDTO{
		Username:       input.Username,
		HashedPassword: hash,
		Descript:       input.Descript,
		RoleID:         input.RoleID,
	}); err != nil {
		if errors.Is(err, model.ErrExists) {
			app.conflict(w, r, err)
			return
		}

		app.serverError(w, r, err)
		return
	}

	user, err := dao.GetByUsername(ctx, input.Username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, toUserResponse(user)); err != nil {
		app.serverError(w, r, err)
	}
}
