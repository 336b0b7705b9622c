package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/redis"
	"pickup/internal/repository"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverRepo repository.DriverRepository
	cache      *redis.CacheStore
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverRepo repository.DriverRepository, cache *redis.CacheStore) *DriverHandler {
	return &DriverHandler{
		driverRepo: driverRepo,
		cache:      cache,
	}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	// Check if driver already exists
	existing, err := h.driverRepo.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Driver already registered",
			"driver":  DriverResponse{ID: existing.ID, Name: existing.Name, Phone: existing.Phone, Status: string(existing.Status)},
		})
		return
	}

	// Create new driver
	driver := &domain.Driver{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Status:    domain.DriverStatusActive,
		CreatedAt: time.Now(),
	}

	if err := h.driverRepo.Create(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, DriverResponse{
		ID:     driver.ID,
		Name:   driver.Name,
		Phone:  driver.Phone,
		Status: string(driver.Status),
	})
}

// GetDriver handles GET /v1/drivers/:id
//
// Driver apps poll their own profile for status; the lookup reads
// through a short-lived cache.
func (h *DriverHandler) GetDriver(c *gin.Context) {
	id := c.Param("id")

	if h.cache != nil {
		cached, err := h.cache.GetDriver(c.Request.Context(), id)
		if err == nil && cached != nil {
			respondJSON(c, http.StatusOK, DriverResponse{
				ID:     cached.ID,
				Name:   cached.Name,
				Phone:  cached.Phone,
				Status: cached.Status,
			})
			return
		}
	}

	driver, err := h.driverRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.SetDriver(c.Request.Context(), &redis.CachedDriver{
			ID:     driver.ID,
			Name:   driver.Name,
			Phone:  driver.Phone,
			Status: string(driver.Status),
		})
	}

	respondJSON(c, http.StatusOK, DriverResponse{
		ID:     driver.ID,
		Name:   driver.Name,
		Phone:  driver.Phone,
		Status: string(driver.Status),
	})
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []DriverResponse
	for _, d := range drivers {
		response = append(response, DriverResponse{
			ID:     d.ID,
			Name:   d.Name,
			Phone:  d.Phone,
			Status: string(d.Status),
		})
	}

	c.JSON(http.StatusOK, response)
}
