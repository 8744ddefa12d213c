package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcatch/backend/middleware"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/pkg/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pagination parses page/limit query parameters with the shared defaults
// and caps.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// currentUserID reads the authenticated caller's id set by the auth
// middleware. A missing or malformed id aborts with 401.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		response.Error(c, apierr.Unauthorized("Authentication required"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseParamID converts a path parameter into an ObjectID.
func parseParamID(c *gin.Context, name string) (primitive.ObjectID, *apierr.Error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apierr.Validation("Invalid " + name + " format")
	}
	return id, nil
}

// bindJSON binds and validates the request body, aborting with 400 on
// failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, apierr.Validation("Invalid request body: "+err.Error()))
		return false
	}
	return true
}
