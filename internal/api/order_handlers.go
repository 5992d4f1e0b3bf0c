package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderservice "github.com/marksousa/testecomerc/internal/service/order"
)

func (a *API) createOrder(c *gin.Context) {
	var req orderservice.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	order, err := a.orders.Create(req)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": order})
}

func (a *API) getOrder(c *gin.Context) {
	order, err := a.orders.Get(c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (a *API) listOrders(c *gin.Context) {
	page, err := a.orders.List(pageFromQuery(c))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope{
		Data:        page.Orders,
		CurrentPage: page.Number,
		PerPage:     page.Size,
		Total:       page.Total,
		LastPage:    page.LastPage(),
	})
}

func (a *API) listCustomerOrders(c *gin.Context) {
	page, err := a.orders.ListByCustomer(c.Param("id"), pageFromQuery(c))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope{
		Data:        page.Orders,
		CurrentPage: page.Number,
		PerPage:     page.Size,
		Total:       page.Total,
		LastPage:    page.LastPage(),
	})
}

func (a *API) updateOrder(c *gin.Context) {
	var req orderservice.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	order, err := a.orders.Update(c.Param("id"), req)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (a *API) deleteOrder(c *gin.Context) {
	if err := a.orders.Delete(c.Param("id")); err != nil {
		a.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
