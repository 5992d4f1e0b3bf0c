package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marksousa/testecomerc/internal/domain"
)

type productRequest struct {
	Name     string        `json:"name"`
	Price    *domain.Money `json:"price"`
	PhotoURL string        `json:"photo_url"`
}

func (r productRequest) validate() *domain.ValidationError {
	v := domain.NewValidationError()

	if strings.TrimSpace(r.Name) == "" {
		v.Add("name", "name is required")
	}
	if r.Price == nil {
		v.Add("price", "price is required")
	} else if *r.Price < 0 {
		v.Add("price", "price must not be negative")
	}

	return v
}

func (a *API) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	if v := req.validate(); v.Has() {
		a.writeError(c, v)
		return
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Price:     *req.Price,
		PhotoURL:  req.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.products.Create(product); err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": product})
}

func (a *API) getProduct(c *gin.Context) {
	product, err := a.products.Get(c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (a *API) listProducts(c *gin.Context) {
	page, err := a.products.List(pageFromQuery(c))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope{
		Data:        page.Products,
		CurrentPage: page.Number,
		PerPage:     page.Size,
		Total:       page.Total,
		LastPage:    page.LastPage(),
	})
}

func (a *API) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	if v := req.validate(); v.Has() {
		a.writeError(c, v)
		return
	}

	product, err := a.products.Get(c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	product.Name = req.Name
	product.Price = *req.Price
	product.PhotoURL = req.PhotoURL
	product.UpdatedAt = time.Now().UTC()

	if err := a.products.Update(product); err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (a *API) deleteProduct(c *gin.Context) {
	if err := a.products.SoftDelete(c.Param("id")); err != nil {
		a.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
