package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/httpx"
	"github.com/MikeMC777/cod-delivery/internal/user"
)

type userService interface {
	Login(ctx context.Context, req user.LoginRequest) (*user.TokenResponse, error)
	Register(ctx context.Context, req user.RegisterRequest) (*user.User, error)
	Me(ctx context.Context, p auth.Principal) (*user.User, error)
}

// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body     user.LoginRequest true "credentials"
// @Success  200  {object} user.TokenResponse
// @Failure  401  {object} httpx.ErrorResponse
// @Router   /auth/login [post]
func loginHandler(svc userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.WriteError(c, httpx.BindError(err))
			return
		}
		res, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Register a customer
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body     user.RegisterRequest true "account"
// @Success  201  {object} user.User
// @Failure  400  {object} httpx.ErrorResponse
// @Router   /auth/register [post]
func registerHandler(svc userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.WriteError(c, httpx.BindError(err))
			return
		}
		u, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// @Summary  Current user
// @Tags     auth
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} user.User
// @Failure  401 {object} httpx.ErrorResponse
// @Router   /auth/me [get]
func meHandler(svc userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.FromContext(c)
		if !ok {
			httpx.WriteError(c, apperr.Unauthorized())
			return
		}
		u, err := svc.Me(c.Request.Context(), p)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
