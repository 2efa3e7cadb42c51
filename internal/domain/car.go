package domain

import "time"

// CarStatus represents the rental status of a car.
type CarStatus string

const (
	CarStatusAvailable CarStatus = "Available"
	CarStatusRented    CarStatus = "Rented"
)

// Transmission represents a car's transmission type.
type Transmission string

const (
	TransmissionAutomatic Transmission = "Automatic"
	TransmissionManual    Transmission = "Manual"
)

// FuelType represents a car's fuel type.
type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
)

// Car represents a rental listing. Status is enforced by the reservation
// engine: Rented if and only if a non-terminal confirmed reservation holds
// the car.
type Car struct {
	ID           string
	OwnerID      string
	Name         string
	Make         string
	Model        string
	Year         int
	LicensePlate string
	DailyRate    float64
	Status       CarStatus
	Latitude     float64
	Longitude    float64
	HasLocation  bool
	Address      string
	Transmission Transmission
	FuelType     FuelType
	Seats        int
	Mileage      float64
	Features     string
	ImageURL     string
	Approved     bool
	CreatedAt    time.Time
}
