package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marksousa/testecomerc/internal/domain"
)

// pageEnvelope is the paginated listing shape every collection endpoint
// returns.
type pageEnvelope struct {
	Data        any `json:"data"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

func pageFromQuery(c *gin.Context) domain.Page {
	page := domain.Page{Size: domain.DefaultPageSize}
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Number = n
		}
	}
	return page.Normalize()
}

// writeError maps service errors onto the API's error contract:
// 422 for validation, 404 for missing resources, 409 for concurrent
// modification, 500 for everything else.
func (a *API) writeError(c *gin.Context, err error) {
	var v *domain.ValidationError

	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "The given data was invalid.",
			"errors":  v.Fields(),
		})
	case errors.Is(err, domain.ErrCustomerEmailTaken):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "The given data was invalid.",
			"errors": map[string][]string{
				"email": {"email is already in use"},
			},
		})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"message": "resource not found",
		})
	case errors.Is(err, domain.ErrOrderVersionConflict):
		c.JSON(http.StatusConflict, gin.H{
			"message": "the order was modified by another request, retry",
		})
	default:
		a.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "internal server error",
		})
	}
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "request body must be valid JSON",
	})
}
