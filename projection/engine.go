// Package projection derives plant count, material needs, cost and the
// yield-based return range for a parcel from its size in perches.
package projection

import (
	"errors"
	"math"
)

// Fixed planting and pricing constants. Currency figures are in rupees.
const (
	PerchSqFt         = 272.25 // square feet in one perch
	PlantSpacingFt    = 8.0
	CompostPerPlantKg = 5
	PlantUnitCost     = 1500
	CompostUnitCost   = 50 // per kg
	YieldPerPlantKg   = 35
	MinPricePerKg     = 100000 // USD
	MaxPricePerKg     = 800000 // USD
	ExchangeRate      = 325    // LKR per USD

	// MaxLandSize keeps plant counts and rupee figures within int64 when
	// rounded for display.
	MaxLandSize = 1e8
)

var ErrInvalidLandSize = errors.New("projection: land size must be a positive number of perches up to 100,000,000")

// Report is the projection for one parcel. A parcel too small to fit a
// single row of plants yields a valid all-zero report.
type Report struct {
	LandSize        float64 `json:"landSize"`
	AreaSqFt        float64 `json:"areaSqFt"`
	PlantsPerSide   int64   `json:"plantsPerSide"`
	TotalPlants     int64   `json:"totalPlants"`
	TotalCompostKg  float64 `json:"totalCompostKg"`
	PlantCost       float64 `json:"plantCost"`
	CompostCost     float64 `json:"compostCost"`
	TotalInvestment float64 `json:"totalInvestment"`
	TotalYieldKg    float64 `json:"totalYieldKg"`
	MinReturn       float64 `json:"minReturn"`
	MaxReturn       float64 `json:"maxReturn"`
}

// Project computes the report for landSize perches. It is a pure function.
func Project(landSize float64) (Report, error) {
	if !(landSize > 0) || landSize > MaxLandSize {
		return Report{}, ErrInvalidLandSize
	}

	area := landSize * PerchSqFt
	perSide := int64(math.Floor(math.Sqrt(area) / PlantSpacingFt))
	plants := perSide * perSide

	r := Report{
		LandSize:      landSize,
		AreaSqFt:      area,
		PlantsPerSide: perSide,
		TotalPlants:   plants,
	}
	r.TotalCompostKg = float64(plants) * CompostPerPlantKg
	r.PlantCost = float64(plants) * PlantUnitCost
	r.CompostCost = r.TotalCompostKg * CompostUnitCost
	r.TotalInvestment = r.PlantCost + r.CompostCost
	r.TotalYieldKg = float64(plants) * YieldPerPlantKg
	r.MinReturn = r.TotalYieldKg * MinPricePerKg * ExchangeRate
	r.MaxReturn = r.TotalYieldKg * MaxPricePerKg * ExchangeRate
	return r, nil
}
