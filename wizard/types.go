package wizard

// Step is a position in the eligibility flow.
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepLandOwnership
	StepLocation
	StepClimateZone
	StepLandDetails
	StepResults
)

func (s Step) Valid() bool { return s >= StepPersonalInfo && s <= StepResults }

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal-info"
	case StepLandOwnership:
		return "land-ownership"
	case StepLocation:
		return "location"
	case StepClimateZone:
		return "climate-zone"
	case StepLandDetails:
		return "land-details"
	case StepResults:
		return "results"
	}
	return "unknown"
}

// Field names double as form/JSON keys.
type Field string

const (
	FieldTitle            Field = "title"
	FieldFirstName        Field = "firstName"
	FieldLastName         Field = "lastName"
	FieldNIC              Field = "nic"
	FieldPhone            Field = "phone"
	FieldEmail            Field = "email"
	FieldHasOwnLand       Field = "hasOwnLand"
	FieldProvince         Field = "province"
	FieldDistrict         Field = "district"
	FieldCity             Field = "city"
	FieldClimateZone      Field = "climateZone"
	FieldLandShape        Field = "landShape"
	FieldHasWater         Field = "hasWater"
	FieldSoilType         Field = "soilType"
	FieldHasStones        Field = "hasStones"
	FieldHasLandslideRisk Field = "hasLandslideRisk"
	FieldHasForestry      Field = "hasForestry"
	FieldLandSize         Field = "landSize"
)

// StepFields lists the fields collected on each input step, in display order.
var StepFields = map[Step][]Field{
	StepPersonalInfo:  {FieldTitle, FieldFirstName, FieldLastName, FieldNIC, FieldPhone, FieldEmail},
	StepLandOwnership: {FieldHasOwnLand},
	StepLocation:      {FieldProvince, FieldDistrict, FieldCity},
	StepClimateZone:   {FieldClimateZone},
	StepLandDetails: {
		FieldLandShape, FieldHasWater, FieldSoilType, FieldHasStones,
		FieldHasLandslideRisk, FieldHasForestry, FieldLandSize,
	},
}

// StepOf returns the step that collects f.
func StepOf(f Field) Step {
	for s, fields := range StepFields {
		for _, x := range fields {
			if x == f {
				return s
			}
		}
	}
	return 0
}

// Titles accepted on step 1.
var Titles = []string{"Mr", "Mrs", "Miss", "Ms", "Dr", "Rev"}

type ClimateZone string

const (
	ZoneWetLow          ClimateZone = "WL"
	ZoneWetMid          ClimateZone = "WM"
	ZoneWetUp           ClimateZone = "WU"
	ZoneIntermediateLow ClimateZone = "IL"
	ZoneIntermediateMid ClimateZone = "IM"
	ZoneOther           ClimateZone = "other"
)

// ClimateZones in display order; the first five are eligible.
var ClimateZones = []ClimateZone{ZoneWetLow, ZoneWetMid, ZoneWetUp, ZoneIntermediateLow, ZoneIntermediateMid, ZoneOther}

func (z ClimateZone) Eligible() bool {
	switch z {
	case ZoneWetLow, ZoneWetMid, ZoneWetUp, ZoneIntermediateLow, ZoneIntermediateMid:
		return true
	}
	return false
}

func (z ClimateZone) Label() string {
	switch z {
	case ZoneWetLow:
		return "Wet zone, low country"
	case ZoneWetMid:
		return "Wet zone, mid country"
	case ZoneWetUp:
		return "Wet zone, up country"
	case ZoneIntermediateLow:
		return "Intermediate zone, low country"
	case ZoneIntermediateMid:
		return "Intermediate zone, mid country"
	case ZoneOther:
		return "Other"
	}
	return string(z)
}

type LandShape string

const (
	ShapeFlat   LandShape = "Flat"
	ShapeSloped LandShape = "Sloped"
	ShapeHilly  LandShape = "Hilly"
)

var LandShapes = []LandShape{ShapeFlat, ShapeSloped, ShapeHilly}

type SoilType string

const (
	SoilLoam     SoilType = "Loam"
	SoilRedEarth SoilType = "Red Earth"
	SoilGravel   SoilType = "Gravel"
	SoilClay     SoilType = "Clay"
	SoilSand     SoilType = "Sand"
	SoilSalt     SoilType = "Salt"
)

var SoilTypes = []SoilType{SoilLoam, SoilRedEarth, SoilGravel, SoilClay, SoilSand, SoilSalt}

// Disadvantaged reports soils that warrant a warning. They never block.
func (s SoilType) Disadvantaged() bool {
	return s == SoilClay || s == SoilSand || s == SoilSalt
}

// State is everything the visitor has entered so far.
type State struct {
	Title     string `json:"title" bson:"title"`
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	NIC       string `json:"nic" bson:"nic"`
	Phone     string `json:"phone" bson:"phone"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`

	HasOwnLand *bool `json:"hasOwnLand,omitempty" bson:"hasOwnLand,omitempty"`

	Province string `json:"province" bson:"province"`
	District string `json:"district" bson:"district"`
	City     string `json:"city" bson:"city"`

	ClimateZone      ClimateZone `json:"climateZone" bson:"climateZone"`
	LandShape        LandShape   `json:"landShape" bson:"landShape"`
	HasWater         *bool       `json:"hasWater,omitempty" bson:"hasWater,omitempty"`
	SoilType         SoilType    `json:"soilType" bson:"soilType"`
	HasStones        *bool       `json:"hasStones,omitempty" bson:"hasStones,omitempty"`
	HasLandslideRisk *bool       `json:"hasLandslideRisk,omitempty" bson:"hasLandslideRisk,omitempty"`
	HasForestry      *bool       `json:"hasForestry,omitempty" bson:"hasForestry,omitempty"`
	// LandSize is in perches; zero means unset.
	LandSize float64 `json:"landSize" bson:"landSize"`
}

// FullName joins title and names for reports.
func (s State) FullName() string {
	name := ""
	for _, p := range []string{s.Title, s.FirstName, s.LastName} {
		if p == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += p
	}
	return name
}

// EligibilityResult is derived once on the step 5 → 6 transition.
type EligibilityResult struct {
	ClimateZoneEligible bool `json:"climateZoneEligible" bson:"climateZoneEligible"`
	SoilTypeEligible    bool `json:"soilTypeEligible" bson:"soilTypeEligible"`
	WaterEligible       bool `json:"waterEligible" bson:"waterEligible"`
	StonesEligible      bool `json:"stonesEligible" bson:"stonesEligible"`
	LandslideEligible   bool `json:"landslideEligible" bson:"landslideEligible"`
	OverallEligible     bool `json:"overallEligible" bson:"overallEligible"`
}

// FieldErrors maps a field to its user-facing message.
type FieldErrors map[Field]string

func boolPtr(b bool) *bool { return &b }

func isTrue(b *bool) bool { return b != nil && *b }
