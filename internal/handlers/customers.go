package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eugenek0529/reservation-system/internal/models"
)

// ListCustomers - GET /api/admin/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	customers, err := h.services.Customers.GetCustomers(c.Request.Context())
	if err != nil {
		respondError(c, "list customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// SearchCustomers - GET /api/admin/customers/search?q=
func (h *Handlers) SearchCustomers(c *gin.Context) {
	customers, err := h.services.Customers.SearchCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, "search customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer - GET /api/admin/customers/:id
func (h *Handlers) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.services.Customers.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer - POST /api/admin/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.services.Customers.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "create customer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer - PUT /api/admin/customers/:id
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.services.Customers.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "update customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer - DELETE /api/admin/customers/:id
func (h *Handlers) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	response, err := h.services.Customers.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, "delete customer", err)
		return
	}
	c.JSON(http.StatusOK, response)
}
