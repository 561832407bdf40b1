package wizard

// Severity of an inline advisory.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	// SeverityBlocking is only used for the flat land + water hard stop.
	SeverityBlocking Severity = "blocking"
)

// Advisory is a non-validation message attached to a field.
type Advisory struct {
	Field    Field    `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ContactURL is offered next to the hard-stop warning.
const ContactURL = "/contact"

// AdvisoriesFor lists the advisories for the answers given so far.
func AdvisoriesFor(s State) []Advisory {
	var out []Advisory
	if HardStop(s) {
		out = append(out, Advisory{
			Field:    FieldHasWater,
			Severity: SeverityBlocking,
			Message:  "Flat land where water collects is not suitable for cultivation. Please contact us to discuss other options.",
		})
	}
	if s.SoilType.Disadvantaged() {
		out = append(out, Advisory{
			Field:    FieldSoilType,
			Severity: SeverityWarning,
			Message:  string(s.SoilType) + " soil may reduce plant growth and yield. Soil treatment may be required.",
		})
	}
	if isTrue(s.HasStones) {
		out = append(out, Advisory{
			Field:    FieldHasStones,
			Severity: SeverityWarning,
			Message:  "Stony land makes planting difficult and may affect eligibility.",
		})
	}
	if isTrue(s.HasLandslideRisk) {
		out = append(out, Advisory{
			Field:    FieldHasLandslideRisk,
			Severity: SeverityWarning,
			Message:  "Land with a landslide risk is not recommended for cultivation.",
		})
	}
	if s.HasForestry != nil && !*s.HasForestry {
		out = append(out, Advisory{
			Field:    FieldHasForestry,
			Severity: SeverityInfo,
			Message:  "Some tree cover helps the plants grow. Shade trees may need to be planted.",
		})
	}
	return out
}
