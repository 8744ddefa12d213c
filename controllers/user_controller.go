package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (ctrl *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, appErr := ctrl.users.GetProfile(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Profile fetched", user.PublicProfile())
}

func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, appErr := ctrl.users.UpdateProfile(c.Request.Context(), userID, &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user.PublicProfile())
}

func (ctrl *UserController) ListAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addresses, appErr := ctrl.users.ListAddresses(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Addresses fetched", addresses)
}

func (ctrl *UserController) AddAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, appErr := ctrl.users.AddAddress(c.Request.Context(), userID, &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusCreated, "Address added", address)
}

func (ctrl *UserController) UpdateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, err := parseParamID(c, "addressId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req services.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, appErr := ctrl.users.UpdateAddress(c.Request.Context(), userID, addressID, &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Address updated", address)
}

func (ctrl *UserController) DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, err := parseParamID(c, "addressId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if appErr := ctrl.users.DeleteAddress(c.Request.Context(), userID, addressID); appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Address deleted", nil)
}
