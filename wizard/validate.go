package wizard

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/asaskevich/govalidator"

	"landcheck/projection"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z ]+$`)
	nicRe   = regexp.MustCompile(`^(?:[0-9]{9}[Vv]|[0-9]{12})$`)
	phoneRe = regexp.MustCompile(`^[0-9]{9}$`)
)

// Validation is the outcome of checking one step against a State.
type Validation struct {
	Valid  bool
	Errors FieldErrors
	// HardStop is set on step 5 for flat land with standing water.
	HardStop bool
}

// ValidNIC accepts the old format (9 digits + V) and the new 12-digit format.
func ValidNIC(nic string) bool { return nicRe.MatchString(nic) }

// ValidPhone accepts a 9-digit local number without the leading zero.
func ValidPhone(phone string) bool { return phoneRe.MatchString(phone) }

// ValidateStep checks the fields collected on step against s. It has no side effects.
func ValidateStep(step Step, s State) Validation {
	return validateStep(step, s, DefaultLocations)
}

func validateStep(step Step, s State, locs *Locations) Validation {
	errs := FieldErrors{}
	for _, f := range StepFields[step] {
		if msg := validateField(f, s, locs); msg != "" {
			errs[f] = msg
		}
	}
	v := Validation{Errors: errs}
	if step == StepLandDetails {
		v.HardStop = HardStop(s)
	}
	v.Valid = len(errs) == 0 && !v.HardStop
	return v
}

// validateField returns an empty string when f holds an acceptable value.
func validateField(f Field, s State, locs *Locations) string {
	switch f {
	case FieldTitle:
		if s.Title == "" {
			return "Title is required"
		}
		if !slices.Contains(Titles, s.Title) {
			return "Select a valid title"
		}
	case FieldFirstName:
		return validateName("First name", s.FirstName)
	case FieldLastName:
		return validateName("Last name", s.LastName)
	case FieldNIC:
		if strings.TrimSpace(s.NIC) == "" {
			return "NIC is required"
		}
		if !ValidNIC(s.NIC) {
			return "NIC must be 9 digits followed by V, or 12 digits"
		}
	case FieldPhone:
		if strings.TrimSpace(s.Phone) == "" {
			return "Phone number is required"
		}
		if !ValidPhone(s.Phone) {
			return "Phone number must be exactly 9 digits"
		}
	case FieldEmail:
		if s.Email != "" && !govalidator.IsEmail(s.Email) {
			return "Enter a valid email address"
		}
	case FieldHasOwnLand:
		if s.HasOwnLand == nil {
			return "Tell us whether you own land"
		}
	case FieldProvince:
		if s.Province == "" {
			return "Province is required"
		}
		if !locs.ValidProvince(s.Province) {
			return "Select a valid province"
		}
	case FieldDistrict:
		if s.District == "" {
			return "District is required"
		}
		if !locs.ValidDistrict(s.Province, s.District) {
			return "Select a district in the chosen province"
		}
	case FieldCity:
		if s.City == "" {
			return "City is required"
		}
		if !locs.ValidCity(s.District, s.City) {
			return "Select a city in the chosen district"
		}
	case FieldClimateZone:
		if s.ClimateZone == "" {
			return "Climate zone is required"
		}
		if !slices.Contains(ClimateZones, s.ClimateZone) {
			return "Select a valid climate zone"
		}
	case FieldLandShape:
		if s.LandShape == "" {
			return "Land shape is required"
		}
		if !slices.Contains(LandShapes, s.LandShape) {
			return "Select a valid land shape"
		}
	case FieldHasWater:
		// Only asked for flat land; an unanswered question blocks.
		if s.LandShape == ShapeFlat && s.HasWater == nil {
			return "Tell us whether water collects on the land"
		}
	case FieldSoilType:
		if s.SoilType == "" {
			return "Soil type is required"
		}
		if !slices.Contains(SoilTypes, s.SoilType) {
			return "Select a valid soil type"
		}
	case FieldHasStones:
		if s.HasStones == nil {
			return "Tell us whether the land has stones"
		}
	case FieldHasLandslideRisk:
		if s.HasLandslideRisk == nil {
			return "Tell us whether the land has a landslide risk"
		}
	case FieldHasForestry:
		if s.HasForestry == nil {
			return "Tell us whether the land has forestry"
		}
	case FieldLandSize:
		if s.LandSize == 0 {
			return "Land size is required"
		}
		if s.LandSize < 0 || math.IsNaN(s.LandSize) || math.IsInf(s.LandSize, 0) {
			return "Land size must be a positive number of perches"
		}
		if s.LandSize > projection.MaxLandSize {
			return "Land size cannot exceed 100,000,000 perches"
		}
	}
	return ""
}

func validateName(label, v string) string {
	if strings.TrimSpace(v) == "" {
		return label + " is required"
	}
	if !nameRe.MatchString(v) {
		return label + " may contain letters and spaces only"
	}
	return ""
}

// HardStop reports flat land with standing water, which cannot be planted
// whatever the other answers are.
func HardStop(s State) bool {
	return s.LandShape == ShapeFlat && isTrue(s.HasWater)
}

// Evaluate derives the eligibility verdict. Soil type is reported but does
// not gate the overall result; forestry is not a criterion at all.
func Evaluate(s State) EligibilityResult {
	r := EligibilityResult{
		ClimateZoneEligible: s.ClimateZone.Eligible(),
		SoilTypeEligible:    !s.SoilType.Disadvantaged(),
		WaterEligible:       !HardStop(s),
		StonesEligible:      !isTrue(s.HasStones),
		LandslideEligible:   !isTrue(s.HasLandslideRisk),
	}
	r.OverallEligible = r.ClimateZoneEligible && r.WaterEligible && r.StonesEligible && r.LandslideEligible
	return r
}
