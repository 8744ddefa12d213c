package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	page, limit := pagination(c)
	query := &services.ProductQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		VendorID: c.Query("vendorId"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		SortBy:   c.Query("sortBy"),
		Page:     page,
		Limit:    limit,
	}
	products, total, appErr := ctrl.catalog.ListProducts(c.Request.Context(), query)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Products fetched", products, response.NewPagination(page, limit, total))
}

func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	product, appErr := ctrl.catalog.GetProduct(c.Request.Context(), c.Param("productId"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Product fetched", product)
}

func (ctrl *CatalogController) Categories(c *gin.Context) {
	categories, appErr := ctrl.catalog.Categories(c.Request.Context())
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Categories fetched", categories)
}

func (ctrl *CatalogController) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > maxPageSize {
		limit = 10
	}
	products, appErr := ctrl.catalog.Featured(c.Request.Context(), c.Query("section"), limit)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Featured products fetched", products)
}

func (ctrl *CatalogController) ListVendors(c *gin.Context) {
	page, limit := pagination(c)
	maxDistance, _ := strconv.Atoi(c.DefaultQuery("maxDistance", "0"))
	query := &services.VendorQuery{
		Pincode:     c.Query("pincode"),
		OpenOnly:    c.Query("isOpen") == "true",
		Longitude:   c.Query("longitude"),
		Latitude:    c.Query("latitude"),
		MaxDistance: maxDistance,
		Page:        page,
		Limit:       limit,
	}
	vendors, total, appErr := ctrl.catalog.ListVendors(c.Request.Context(), query)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Vendors fetched", vendors, response.NewPagination(page, limit, total))
}

func (ctrl *CatalogController) GetVendor(c *gin.Context) {
	vendor, appErr := ctrl.catalog.GetVendor(c.Request.Context(), c.Param("vendorId"))
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Success(c, http.StatusOK, "Vendor fetched", vendor)
}

func (ctrl *CatalogController) VendorProducts(c *gin.Context) {
	page, limit := pagination(c)
	products, total, appErr := ctrl.catalog.VendorProducts(c.Request.Context(), c.Param("vendorId"), page, limit)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	response.Paginated(c, http.StatusOK, "Products fetched", products, response.NewPagination(page, limit, total))
}
