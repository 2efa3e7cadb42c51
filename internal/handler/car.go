package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentndrive/internal/domain"
	"rentndrive/internal/middleware"
	"rentndrive/internal/service"
)

// CarHandler handles HTTP requests for the car catalog.
type CarHandler struct {
	carService          *service.CarService
	availabilityService *service.AvailabilityService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(carService *service.CarService, availabilityService *service.AvailabilityService) *CarHandler {
	return &CarHandler{carService: carService, availabilityService: availabilityService}
}

// CarResponse is the HTTP representation of a car.
type CarResponse struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"owner_id"`
	Name         string  `json:"name"`
	Make         string  `json:"make,omitempty"`
	Model        string  `json:"model,omitempty"`
	Year         int     `json:"year,omitempty"`
	LicensePlate string  `json:"license_plate,omitempty"`
	DailyRate    float64 `json:"daily_rate"`
	Status       string  `json:"status"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	Address      string  `json:"address,omitempty"`
	Transmission string  `json:"transmission,omitempty"`
	FuelType     string  `json:"fuel_type,omitempty"`
	Seats        int     `json:"seats,omitempty"`
	Mileage      float64 `json:"mileage,omitempty"`
	Features     string  `json:"features,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	Approved     bool    `json:"approved"`
	DistanceKm   float64 `json:"distance_km,omitempty"`
}

func toCarResponse(car *domain.Car) CarResponse {
	return CarResponse{
		ID:           car.ID,
		OwnerID:      car.OwnerID,
		Name:         car.Name,
		Make:         car.Make,
		Model:        car.Model,
		Year:         car.Year,
		LicensePlate: car.LicensePlate,
		DailyRate:    car.DailyRate,
		Status:       string(car.Status),
		Latitude:     car.Latitude,
		Longitude:    car.Longitude,
		Address:      car.Address,
		Transmission: string(car.Transmission),
		FuelType:     string(car.FuelType),
		Seats:        car.Seats,
		Mileage:      car.Mileage,
		Features:     car.Features,
		ImageURL:     car.ImageURL,
		Approved:     car.Approved,
	}
}

func toCarResponsePtr(car *domain.Car) *CarResponse {
	if car == nil {
		return nil
	}
	r := toCarResponse(car)
	return &r
}

// carRequest is the request body for creating and updating cars.
type carRequest struct {
	Name         string   `json:"name" binding:"required"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	LicensePlate string   `json:"license_plate"`
	DailyRate    float64  `json:"daily_rate" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Address      string   `json:"address"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuel_type"`
	Seats        int      `json:"seats"`
	Mileage      float64  `json:"mileage"`
	Features     string   `json:"features"`
	ImageURL     string   `json:"image_url"`
}

func (r *carRequest) toServiceRequest() service.CreateCarRequest {
	req := service.CreateCarRequest{
		Name:         r.Name,
		Make:         r.Make,
		Model:        r.Model,
		Year:         r.Year,
		LicensePlate: r.LicensePlate,
		DailyRate:    r.DailyRate,
		Address:      r.Address,
		Transmission: domain.Transmission(r.Transmission),
		FuelType:     domain.FuelType(r.FuelType),
		Seats:        r.Seats,
		Mileage:      r.Mileage,
		Features:     r.Features,
		ImageURL:     r.ImageURL,
	}
	if r.Latitude != nil && r.Longitude != nil {
		req.Latitude = *r.Latitude
		req.Longitude = *r.Longitude
		req.HasLocation = true
	}
	return req
}

// Create handles POST /car
func (h *CarHandler) Create(c *gin.Context) {
	var req carRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidDailyRate)
		return
	}

	car, err := h.carService.CreateCar(c.Request.Context(), middleware.ActorFrom(c), req.toServiceRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"message": "Car listed, pending approval",
		"car":     toCarResponse(car),
	})
}

// Get handles GET /car/:id
func (h *CarHandler) Get(c *gin.Context) {
	car, err := h.carService.GetCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCarResponse(car))
}

// Update handles PUT /car/:id
func (h *CarHandler) Update(c *gin.Context) {
	var req carRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidDailyRate)
		return
	}

	car, err := h.carService.UpdateCar(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.toServiceRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message": "Car updated",
		"car":     toCarResponse(car),
	})
}

// ListOwn handles GET /cars/owner
func (h *CarHandler) ListOwn(c *gin.Context) {
	cars, err := h.carService.ListOwnerCars(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCarResponses(cars))
}

// ListAll handles GET /admin/cars
func (h *CarHandler) ListAll(c *gin.Context) {
	cars, err := h.carService.ListAllCars(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCarResponses(cars))
}

// approveRequest is the request body for PUT /admin/car/approve/:id.
type approveRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// Approve handles PUT /admin/car/approve/:id
func (h *CarHandler) Approve(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidCarID)
		return
	}

	if err := h.carService.ApproveCar(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), *req.Approved); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "Car approval updated"})
}

// Nearby handles GET /cars/nearby?lat=&lng=&radius=
func (h *CarHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "0"), 64)

	nearby, err := h.availabilityService.NearbyAvailableCars(c.Request.Context(), lat, lng, radius)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CarResponse, 0, len(nearby))
	for _, n := range nearby {
		car := toCarResponse(n.Car)
		car.DistanceKm = n.DistanceKm
		response = append(response, car)
	}
	respondJSON(c, http.StatusOK, response)
}

// SuggestAddresses handles GET /cars/suggest?q=
func (h *CarHandler) SuggestAddresses(c *gin.Context) {
	suggestions, err := h.carService.SuggestAddresses(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"suggestions": suggestions})
}

func toCarResponses(cars []*domain.Car) []CarResponse {
	response := make([]CarResponse, 0, len(cars))
	for _, car := range cars {
		response = append(response, toCarResponse(car))
	}
	return response
}
