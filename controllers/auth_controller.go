package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	result, appErr := ctrl.auth.Register(c.Request.Context(), &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", result)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, appErr := ctrl.auth.Login(c.Request.Context(), &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Logout is a client-side concern with stateless tokens; the endpoint
// exists so clients have a uniform call to clear their session against.
func (ctrl *AuthController) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, "Logged out", nil)
}

func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, appErr := ctrl.auth.GetUser(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "User fetched", user.PublicProfile())
}

func (ctrl *AuthController) UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.UpdatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if appErr := ctrl.auth.UpdatePassword(c.Request.Context(), userID, &req); appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

func (ctrl *AuthController) Deactivate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if appErr := ctrl.auth.Deactivate(c.Request.Context(), userID); appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Account deactivated", nil)
}
