package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/andremq/user-accounts-backend/internal/adapter/handler/dto/request"
	"github.com/andremq/user-accounts-backend/internal/adapter/handler/dto/response"
	"github.com/andremq/user-accounts-backend/internal/pkg/httputil"
	"github.com/andremq/user-accounts-backend/internal/usecase/user"
)

type UserHandler struct {
	userSvc UserService
}

func NewUserHandler(userSvc UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Create godoc
//
//	@Summary		Create a new user
//	@Description	Create a new user account
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.CreateUserRequest	true	"User data"
//	@Success		201		{object}	response.UserResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		409		{object}	httputil.ErrorResponse	"Email or username already in use"
//	@Router			/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	created, err := h.userSvc.CreateUser(c.Request.Context(), user.CreateInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.Created(c, response.UserFromEntity(created))
}

// List godoc
//
//	@Summary		List users
//	@Description	List all user accounts
//	@Tags			users
//	@Produce		json
//	@Success		200	{array}	response.UserResponse
//	@Router			/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.OK(c, response.UsersFromEntities(users))
}

// Get godoc
//
//	@Summary		Get a user
//	@Description	Fetch a user by entity id
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"Entity ID"
//	@Success		200	{object}	response.UserResponse
//	@Failure		404	{object}	httputil.ErrorResponse
//	@Router			/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.userSvc.FindByEntityID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.OK(c, response.UserFromEntity(u))
}

// Update godoc
//
//	@Summary		Update a user
//	@Description	Partially update a user's name, username, and email
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Entity ID"
//	@Param			request	body		request.UpdateUserRequest	true	"Updated fields"
//	@Success		200		{object}	response.UserResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		404		{object}	httputil.ErrorResponse
//	@Failure		409		{object}	httputil.ErrorResponse	"Email already in use"
//	@Router			/users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	var req request.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	updated, err := h.userSvc.UpdateUser(c.Request.Context(), c.Param("id"), user.UpdateInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.OK(c, response.UserFromEntity(updated))
}

// Delete godoc
//
//	@Summary		Delete a user
//	@Description	Permanently delete a user by entity id
//	@Tags			users
//	@Param			id	path	string	true	"Entity ID"
//	@Success		204
//	@Failure		404	{object}	httputil.ErrorResponse
//	@Router			/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userSvc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.NoContent(c)
}
