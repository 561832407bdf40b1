package models

import "time"

// Submission is the visitor record sent to the persistence API once the
// eligibility questionnaire is complete. Field names match the API exactly.
type Submission struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`

	Title     string `json:"title"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	NIC       string `json:"nic"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`

	HasOwnLand bool   `json:"hasOwnLand"`
	Province   string `json:"province"`
	District   string `json:"district"`
	City       string `json:"city"`

	ClimateZone      string  `json:"climateZone"`
	LandShape        string  `json:"landShape"`
	HasWater         *bool   `json:"hasWater"` // null unless the land is flat
	SoilType         string  `json:"soilType"`
	HasStones        bool    `json:"hasStones"`
	HasLandslideRisk bool    `json:"hasLandslideRisk"`
	HasForestry      bool    `json:"hasForestry"`
	LandSize         float64 `json:"landSize"` // perches

	Eligibility Eligibility `json:"eligibility"`
}

// Eligibility is the per-criterion breakdown; soil is advisory only.
type Eligibility struct {
	ClimateZone bool `json:"climateZone"`
	SoilType    bool `json:"soilType"`
	Water       bool `json:"water"`
	Stones      bool `json:"stones"`
	Landslide   bool `json:"landslide"`
	Overall     bool `json:"overall"`
}

// SubmissionAck is the optional body returned by the persistence API.
type SubmissionAck struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
