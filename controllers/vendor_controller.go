package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

type VendorController struct {
	vendors *services.VendorService
}

func NewVendorController(vendors *services.VendorService) *VendorController {
	return &VendorController{vendors: vendors}
}

func (ctrl *VendorController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	vendor, appErr := ctrl.vendors.GetByOwner(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Vendor profile fetched", vendor)
}

func (ctrl *VendorController) CreateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.VendorProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	vendor, appErr := ctrl.vendors.CreateProfile(c.Request.Context(), userID, &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusCreated, "Vendor profile created, pending verification", vendor)
}

func (ctrl *VendorController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.VendorProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	vendor, appErr := ctrl.vendors.UpdateProfile(c.Request.Context(), userID, &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Vendor profile updated", vendor)
}

func (ctrl *VendorController) ToggleOpen(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	vendor, appErr := ctrl.vendors.ToggleOpen(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	message := "Shop closed"
	if vendor.IsOpen {
		message = "Shop opened"
	}
	response.Success(c, http.StatusOK, message, vendor)
}

func (ctrl *VendorController) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dashboard, appErr := ctrl.vendors.Dashboard(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard fetched", dashboard)
}

func (ctrl *VendorController) ListProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	products, total, appErr := ctrl.vendors.ListProducts(c.Request.Context(), userID, page, limit)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Products fetched", products, response.NewPagination(page, limit, total))
}

func (ctrl *VendorController) CreateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, appErr := ctrl.vendors.CreateProduct(c.Request.Context(), userID, &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusCreated, "Product created", product)
}

func (ctrl *VendorController) UpdateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, appErr := ctrl.vendors.UpdateProduct(c.Request.Context(), userID, c.Param("productId"), &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Product updated", product)
}

func (ctrl *VendorController) UpdateStock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.StockUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	product, appErr := ctrl.vendors.UpdateStock(c.Request.Context(), userID, c.Param("productId"), *req.StockQuantity)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Stock updated", product)
}

func (ctrl *VendorController) DeleteProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if appErr := ctrl.vendors.DeleteProduct(c.Request.Context(), userID, c.Param("productId")); appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Product deleted", nil)
}
