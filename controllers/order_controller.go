package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	vendors  *services.VendorService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService, vendors *services.VendorService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders, vendors: vendors}
}

// Create places an order from the caller's cart. An Idempotency-Key header
// makes retries safe.
func (ctrl *OrderController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	order, appErr := ctrl.checkout.Checkout(c.Request.Context(), userID, &req, c.GetHeader("Idempotency-Key"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusCreated, "Order placed", order)
}

func (ctrl *OrderController) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	orders, total, appErr := ctrl.orders.ListCustomerOrders(c.Request.Context(), userID, c.Query("status"), page, limit)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Orders fetched", orders, response.NewPagination(page, limit, total))
}

func (ctrl *OrderController) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	order, appErr := ctrl.orders.GetCustomerOrder(c.Request.Context(), userID, c.Param("orderId"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Order fetched", order)
}

func (ctrl *OrderController) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.CancelOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, appErr := ctrl.orders.CancelByCustomer(c.Request.Context(), userID, c.Param("orderId"), req.Reason)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Order cancelled", order)
}

func (ctrl *OrderController) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, appErr := ctrl.orders.CustomerStats(c.Request.Context(), userID, c.Query("period"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Order stats fetched", stats)
}

func (ctrl *OrderController) Rate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.RateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, appErr := ctrl.orders.Rate(c.Request.Context(), userID, c.Param("orderId"), &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Order rated", order)
}

// VendorList returns the caller's shop orders. The caller is a vendor
// account; the vendor profile is resolved from their user id.
func (ctrl *OrderController) VendorList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	vendor, appErr := ctrl.vendors.GetByOwner(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	page, limit := pagination(c)
	orders, total, appErr := ctrl.orders.ListVendorOrders(c.Request.Context(), vendor.ID, c.Query("status"), page, limit)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Orders fetched", orders, response.NewPagination(page, limit, total))
}

func (ctrl *OrderController) VendorUpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	vendor, appErr := ctrl.vendors.GetByOwner(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, appErr := ctrl.orders.UpdateStatus(c.Request.Context(), vendor.ID, c.Param("orderId"), &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Order status updated", order)
}
