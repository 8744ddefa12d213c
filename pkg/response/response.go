package response

import (
	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/apierr"
)

// Envelope is the standard API response shape.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPagination computes page metadata from totals.
func NewPagination(page, limit int, totalItems int64) *Pagination {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

// Success writes a success envelope.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a success envelope with pagination metadata.
func Paginated(c *gin.Context, status int, message string, data interface{}, p *Pagination) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data, Pagination: p})
}

// Error writes an error envelope from an application error and aborts the
// request.
func Error(c *gin.Context, err error) {
	appErr := apierr.From(err)
	c.AbortWithStatusJSON(appErr.Code, Envelope{Success: false, Message: appErr.Message})
}
