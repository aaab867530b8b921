package cage

import (
	"errors"
	"time"
)

// defaultTemperature is the initial body-temperature reading for a
// freshly provisioned cage (healthy poultry baseline, °C).
const defaultTemperature = 38.6

// ObjectRecognition holds the vision model's disease classification
// confidences for a cage's flock.
type ObjectRecognition struct {
	Coccidiosis float64 `json:"coccidiosis"`
	Newcastle   float64 `json:"newcastle"`
	Salmonella  float64 `json:"salmonella"`
	Healthy     float64 `json:"healthy"`
}

// Cage is a monitored livestock cage. The ID is the caller-supplied
// cage identifier; AssignedMonitor ties the cage to a customer's
// monitoring unit.
type Cage struct {
	ID                string            `json:"cage_id"`
	AssignedMonitor   string            `json:"assigned_monitor"`
	LivestockNo       int               `json:"livestock_no"`
	Temperature       float64           `json:"temperature"`
	Humidity          float64           `json:"humidity"`
	Pressure          float64           `json:"pressure"`
	Ammonia           float64           `json:"ammonia"`
	CO2               float64           `json:"co2"`
	ObjectRecognition ObjectRecognition `json:"object_recognition"`
	Timestamp         time.Time         `json:"timestamp"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Credential is the stored verifier for a cage's device secret.
// The secret itself is never persisted.
type Credential struct {
	CageID    string    `json:"cage_id"`
	Verifier  string    `json:"-"` // never serialised
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCage is the input for provisioning.
type NewCage struct {
	CageID          string `json:"cage_id"`
	LivestockNo     int    `json:"livestock_no"`
	AssignedMonitor string `json:"assigned_monitor"`
}

// ProvisionedCage is the provisioning result. DeviceSecret is the one
// and only disclosure of the raw secret.
type ProvisionedCage struct {
	Cage
	DeviceSecret string `json:"device_token"`
}

// Readings is a device's sensor update.
type Readings struct {
	Temperature       float64           `json:"temperature"`
	Humidity          float64           `json:"humidity"`
	Pressure          float64           `json:"pressure"`
	Ammonia           float64           `json:"ammonia"`
	CO2               float64           `json:"co2"`
	ObjectRecognition ObjectRecognition `json:"object_recognition"`
	Timestamp         time.Time         `json:"timestamp"`
}

// Sentinel errors for cage operations.
var (
	ErrCageExists     = errors.New("cage already exist")
	ErrCageNotFound   = errors.New("cage does not exist")
	ErrSecretMismatch = errors.New("device secret mismatch")
)
