package api

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/marksousa/testecomerc/internal/domain"
	"github.com/marksousa/testecomerc/internal/health"
	orderservice "github.com/marksousa/testecomerc/internal/service/order"
)

// API holds the handlers' collaborators.
type API struct {
	orders    *orderservice.Workflow
	customers domain.CustomerRepository
	products  domain.ProductRepository
	health    *health.Service
	logger    *log.Entry
}

// New wires the API against its services.
func New(
	orders *orderservice.Workflow,
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	healthService *health.Service,
	logger *log.Entry,
) *API {
	if logger == nil {
		logger = log.WithField("component", "api")
	}
	return &API{
		orders:    orders,
		customers: customers,
		products:  products,
		health:    healthService,
		logger:    logger,
	}
}

// Router builds the gin engine with every route group attached.
func (a *API) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), a.requestMetrics())

	root := r.Group("/api")
	root.GET("/status", a.status)

	orders := root.Group("/orders")
	{
		orders.GET("", a.listOrders)
		orders.POST("", a.createOrder)
		orders.GET("/:id", a.getOrder)
		orders.PUT("/:id", a.updateOrder)
		orders.PATCH("/:id", a.updateOrder)
		orders.DELETE("/:id", a.deleteOrder)
	}

	customers := root.Group("/customers")
	{
		customers.GET("", a.listCustomers)
		customers.POST("", a.createCustomer)
		customers.GET("/:id", a.getCustomer)
		customers.PUT("/:id", a.updateCustomer)
		customers.PATCH("/:id", a.updateCustomer)
		customers.DELETE("/:id", a.deleteCustomer)
		customers.GET("/:id/orders", a.listCustomerOrders)
	}

	products := root.Group("/products")
	{
		products.GET("", a.listProducts)
		products.POST("", a.createProduct)
		products.GET("/:id", a.getProduct)
		products.PUT("/:id", a.updateProduct)
		products.PATCH("/:id", a.updateProduct)
		products.DELETE("/:id", a.deleteProduct)
	}

	return r
}
