package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (ctrl *CartController) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, issues, appErr := ctrl.carts.GetCart(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Cart fetched", gin.H{
		"cart":    view.Cart,
		"summary": view.Summary,
		"issues":  issues,
	})
}

func (ctrl *CartController) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	view, appErr := ctrl.carts.AddItem(c.Request.Context(), userID, &req)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Item added to cart", view)
}

func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	view, appErr := ctrl.carts.UpdateItemQuantity(c.Request.Context(), userID, c.Param("productId"), *req.Quantity)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Cart item updated", view)
}

func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, appErr := ctrl.carts.RemoveItem(c.Request.Context(), userID, c.Param("productId"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Item removed from cart", view)
}

func (ctrl *CartController) Clear(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, appErr := ctrl.carts.Clear(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Cart cleared", view)
}

func (ctrl *CartController) Validate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, issues, appErr := ctrl.carts.Validate(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Cart validated", gin.H{
		"cart":    view.Cart,
		"summary": view.Summary,
		"issues":  issues,
		"isValid": len(issues) == 0,
	})
}

func (ctrl *CartController) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, appErr := ctrl.carts.Summary(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Cart summary fetched", summary)
}

func (ctrl *CartController) SyncPrices(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, updated, appErr := ctrl.carts.SyncPrices(c.Request.Context(), userID)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	message := "Cart prices already up to date"
	if updated {
		message = "Cart prices updated"
	}
	response.Success(c, http.StatusOK, message, view)
}
