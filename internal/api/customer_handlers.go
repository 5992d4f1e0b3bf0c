package api

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marksousa/testecomerc/internal/domain"
)

type customerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Birthdate      string `json:"birthdate"`
	Address        string `json:"address"`
	AddressLineTwo string `json:"address_line_two"`
	Neighborhood   string `json:"neighborhood"`
	ZipCode        string `json:"zip_code"`
}

func (r customerRequest) validate() *domain.ValidationError {
	v := domain.NewValidationError()

	if strings.TrimSpace(r.Name) == "" {
		v.Add("name", "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		v.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		v.Add("email", "email must be a valid address")
	}
	if r.Birthdate != "" {
		if _, err := time.Parse("2006-01-02", r.Birthdate); err != nil {
			v.Add("birthdate", "birthdate must be a date in the format 2006-01-02")
		}
	}

	return v
}

func (r customerRequest) apply(customer *domain.Customer) {
	customer.Name = r.Name
	customer.Email = r.Email
	customer.Phone = r.Phone
	customer.Birthdate = r.Birthdate
	customer.Address = r.Address
	customer.AddressLineTwo = r.AddressLineTwo
	customer.Neighborhood = r.Neighborhood
	customer.ZipCode = r.ZipCode
}

func (a *API) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	if v := req.validate(); v.Has() {
		a.writeError(c, v)
		return
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.apply(&customer)

	if err := a.customers.Create(customer); err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (a *API) getCustomer(c *gin.Context) {
	customer, err := a.customers.Get(c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (a *API) listCustomers(c *gin.Context) {
	page, err := a.customers.List(pageFromQuery(c))
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope{
		Data:        page.Customers,
		CurrentPage: page.Number,
		PerPage:     page.Size,
		Total:       page.Total,
		LastPage:    page.LastPage(),
	})
}

func (a *API) updateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	if v := req.validate(); v.Has() {
		a.writeError(c, v)
		return
	}

	customer, err := a.customers.Get(c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	req.apply(&customer)
	customer.UpdatedAt = time.Now().UTC()

	if err := a.customers.Update(customer); err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (a *API) deleteCustomer(c *gin.Context) {
	if err := a.customers.SoftDelete(c.Param("id")); err != nil {
		a.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
