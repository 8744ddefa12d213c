package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

func (ctrl *AdminController) ListVendors(c *gin.Context) {
	page, limit := pagination(c)
	vendors, total, appErr := ctrl.admin.ListVendors(c.Request.Context(), c.Query("status"), c.Query("search"), page, limit)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Vendors fetched", vendors, response.NewPagination(page, limit, total))
}

func (ctrl *AdminController) GetVendorDetails(c *gin.Context) {
	details, appErr := ctrl.admin.GetVendorDetails(c.Request.Context(), c.Param("vendorId"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Vendor details fetched", details)
}

func (ctrl *AdminController) VerifyVendor(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	vendor, appErr := ctrl.admin.VerifyVendor(c.Request.Context(), adminID, c.Param("vendorId"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Vendor verified", vendor)
}

func (ctrl *AdminController) RejectVendor(c *gin.Context) {
	var req services.RejectVendorRequest
	if !bindJSON(c, &req) {
		return
	}
	vendor, appErr := ctrl.admin.RejectVendor(c.Request.Context(), c.Param("vendorId"), req.Reason)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Vendor application rejected", vendor)
}

func (ctrl *AdminController) ListUsers(c *gin.Context) {
	page, limit := pagination(c)
	users, total, appErr := ctrl.admin.ListUsers(c.Request.Context(), c.Query("role"), c.Query("search"), page, limit)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Users fetched", users, response.NewPagination(page, limit, total))
}

func (ctrl *AdminController) ToggleUserStatus(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, appErr := ctrl.admin.ToggleUserStatus(c.Request.Context(), adminID, c.Param("userId"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "User status updated", user)
}

func (ctrl *AdminController) Dashboard(c *gin.Context) {
	dashboard, appErr := ctrl.admin.Dashboard(c.Request.Context())
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard fetched", dashboard)
}
