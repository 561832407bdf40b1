package views

import (
	"fmt"
	"net/url"
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"landcheck/wizard"
)

var stepTitles = map[wizard.Step]string{
	wizard.StepPersonalInfo:  "Personal information",
	wizard.StepLandOwnership: "Land ownership",
	wizard.StepLocation:      "Location",
	wizard.StepClimateZone:   "Climate zone",
	wizard.StepLandDetails:   "Land details",
	wizard.StepResults:       "Results",
}

// WizardPage renders the current step of the eligibility check.
func WizardPage(v wizard.View, locs *wizard.Locations) g.Node {
	return Layout("Land eligibility",
		H1(g.Text("Check your land")),
		g.If(v.Step == wizard.StepResults, stepIndicator(v.Step)),
		g.If(v.Step == wizard.StepResults, resultsStep(v)),
		g.If(v.Step != wizard.StepResults, stepForm(v, locs)),
	)
}

// stepIndicator lists the steps. Inside the step form, completed steps and
// the one after the current step are submit buttons posting step=N, so the
// answers on screen are saved before jumping.
func stepIndicator(current wizard.Step) g.Node {
	var items []g.Node
	for s := wizard.StepPersonalInfo; s <= wizard.StepResults; s++ {
		class := "upcoming"
		switch {
		case s == current:
			class = "current"
		case s < current:
			class = "done"
		}
		label := fmt.Sprintf("%d. %s", int(s), stepTitles[s])
		jump := current != wizard.StepResults && s != current &&
			(s < current || s == current+1) && s < wizard.StepResults
		var item g.Node = g.Text(label)
		if jump {
			item = Button(Type("submit"), Name("step"), Value(strconv.Itoa(int(s))), g.Text(label))
		}
		items = append(items, Li(Class(class),
			g.If(s == current, g.Attr("aria-current", "step")),
			item,
		))
	}
	return Ol(Class("steps"), g.Group(items))
}

func stepForm(v wizard.View, locs *wizard.Locations) g.Node {
	var body g.Node
	switch v.Step {
	case wizard.StepPersonalInfo:
		body = personalInfo(v)
	case wizard.StepLandOwnership:
		body = landOwnership(v)
	case wizard.StepLocation:
		body = location(v, locs)
	case wizard.StepClimateZone:
		body = climateZone(v)
	case wizard.StepLandDetails:
		body = landDetails(v)
	}
	return FormEl(Method("post"), Action("/eligibility"), g.Attr("novalidate"),
		H2(g.Text(stepTitles[v.Step])),
		g.If(v.Notice != "", banner("notice", v.Notice, A(Href(wizard.ContactURL), g.Text("Contact us")))),
		g.If(v.SubmitError != "", banner("error", v.SubmitError)),
		body,
		navButtons(v),
		// After the nav buttons so Enter still means Next.
		Nav(g.Attr("aria-label", "Steps"), stepIndicator(v.Step)),
	)
}

// navButtons puts Next first in tree order so pressing Enter advances.
// Next stays enabled on a hard stop: the visitor may have just changed the
// blocking answer, and Advance refuses while it still holds.
func navButtons(v wizard.View) g.Node {
	next := "Next"
	if v.Step == wizard.StepLandDetails {
		next = "See my results"
	}
	return Div(Class("actions"),
		Button(Type("submit"), Name("action"), Value("next"), g.If(v.Submitting, Disabled()), g.Text(next)),
		g.If(v.Step == wizard.StepLandDetails,
			Button(Type("submit"), Name("action"), Value("update"), g.Attr("formnovalidate"), g.Text("Check answers")),
		),
		g.If(v.Step > wizard.StepPersonalInfo,
			Button(Type("submit"), Name("action"), Value("back"), g.Attr("formnovalidate"), g.Text("Back")),
		),
	)
}

func fieldError(v wizard.View, f wizard.Field) g.Node {
	msg, ok := v.Errors[f]
	if !ok {
		return nil
	}
	return P(Class("field-error"), ID(string(f)+"-error"), g.Text(msg))
}

func advisories(v wizard.View, f wizard.Field) g.Node {
	var out []g.Node
	for _, a := range v.Advisories {
		if a.Field != f {
			continue
		}
		out = append(out, Div(Class("advisory "+string(a.Severity)), Role("status"),
			P(g.Text(a.Message)),
			g.If(a.Severity == wizard.SeverityBlocking, A(Href(wizard.ContactURL), g.Text("Contact us"))),
		))
	}
	return g.Group(out)
}

func textInput(v wizard.View, f wizard.Field, label, typ, value string, extra ...g.Node) g.Node {
	id := string(f)
	_, invalid := v.Errors[f]
	return Div(Class("field"),
		LabelEl(For(id), g.Text(label)),
		Input(Type(typ), ID(id), Name(id), Value(value),
			g.If(invalid, g.Attr("aria-invalid", "true")),
			g.Group(extra),
		),
		fieldError(v, f),
	)
}

type option struct {
	value, label string
}

func stringOptions(values []string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{v, v}
	}
	return out
}

func selectInput(v wizard.View, f wizard.Field, label, current string, opts []option) g.Node {
	id := string(f)
	return Div(Class("field"),
		LabelEl(For(id), g.Text(label)),
		Select(ID(id), Name(id), g.If(len(opts) == 0, Disabled()),
			Option(Value(""), g.Text("Select...")),
			g.Map(opts, func(o option) g.Node {
				return Option(Value(o.value), g.If(o.value == current, Selected()), g.Text(o.label))
			}),
		),
		fieldError(v, f),
		advisories(v, f),
	)
}

// yesNo renders a radio pair; an unanswered question leaves both unchecked.
func yesNo(v wizard.View, f wizard.Field, question string, answer *bool) g.Node {
	id := string(f)
	radio := func(value, label string, checked bool) g.Node {
		rid := id + "-" + value
		return Span(
			Input(Type("radio"), ID(rid), Name(id), Value(value), g.If(checked, Checked())),
			LabelEl(For(rid), g.Text(label)),
		)
	}
	return FieldSet(Class("field"),
		Legend(g.Text(question)),
		radio("yes", "Yes", answer != nil && *answer),
		radio("no", "No", answer != nil && !*answer),
		fieldError(v, f),
		advisories(v, f),
	)
}

func personalInfo(v wizard.View) g.Node {
	s := v.State
	return g.Group([]g.Node{
		selectInput(v, wizard.FieldTitle, "Title", s.Title, stringOptions(wizard.Titles)),
		textInput(v, wizard.FieldFirstName, "First name", "text", s.FirstName, AutoComplete("given-name")),
		textInput(v, wizard.FieldLastName, "Last name", "text", s.LastName, AutoComplete("family-name")),
		textInput(v, wizard.FieldNIC, "NIC number", "text", s.NIC, Placeholder("123456789V or 200012345678")),
		textInput(v, wizard.FieldPhone, "Mobile number (+94)", "tel", s.Phone, Placeholder("771234567")),
		textInput(v, wizard.FieldEmail, "Email (optional)", "email", s.Email, AutoComplete("email")),
	})
}

func landOwnership(v wizard.View) g.Node {
	return yesNo(v, wizard.FieldHasOwnLand, "Do you own the land you want to cultivate?", v.State.HasOwnLand)
}

func location(v wizard.View, locs *wizard.Locations) g.Node {
	s := v.State
	var districts, cities []string
	if s.Province != "" {
		districts = locs.Districts(s.Province)
	}
	if s.District != "" {
		cities = locs.Cities(s.District)
	}
	return g.Group([]g.Node{
		selectInput(v, wizard.FieldProvince, "Province", s.Province, stringOptions(locs.Provinces())),
		selectInput(v, wizard.FieldDistrict, "District", s.District, stringOptions(districts)),
		selectInput(v, wizard.FieldCity, "City", s.City, stringOptions(cities)),
		// Without scripts the dependent lists refresh on this round trip.
		Button(Type("submit"), Name("action"), Value("update"), g.Attr("formnovalidate"), g.Text("Update lists")),
	})
}

func climateZone(v wizard.View) g.Node {
	opts := make([]option, len(wizard.ClimateZones))
	for i, z := range wizard.ClimateZones {
		opts[i] = option{string(z), z.Label()}
	}
	return selectInput(v, wizard.FieldClimateZone, "Climate zone", string(v.State.ClimateZone), opts)
}

func landDetails(v wizard.View) g.Node {
	s := v.State
	shapes := make([]option, len(wizard.LandShapes))
	for i, sh := range wizard.LandShapes {
		shapes[i] = option{string(sh), string(sh)}
	}
	soils := make([]option, len(wizard.SoilTypes))
	for i, st := range wizard.SoilTypes {
		soils[i] = option{string(st), string(st)}
	}
	size := ""
	if s.LandSize > 0 {
		size = strconv.FormatFloat(s.LandSize, 'f', -1, 64)
	}
	return g.Group([]g.Node{
		selectInput(v, wizard.FieldLandShape, "Shape of the land", string(s.LandShape), shapes),
		g.If(s.LandShape == wizard.ShapeFlat,
			yesNo(v, wizard.FieldHasWater, "Does water collect on the land after rain?", s.HasWater),
		),
		selectInput(v, wizard.FieldSoilType, "Soil type", string(s.SoilType), soils),
		yesNo(v, wizard.FieldHasStones, "Are there rocks or stones on the land?", s.HasStones),
		yesNo(v, wizard.FieldHasLandslideRisk, "Is the land at risk of landslides?", s.HasLandslideRisk),
		yesNo(v, wizard.FieldHasForestry, "Are there trees on the land?", s.HasForestry),
		textInput(v, wizard.FieldLandSize, "Land size (perches)", "number", size, Min("0"), Step("any")),
	})
}

type criterion struct {
	label string
	ok    bool
}

func resultsStep(v wizard.View) g.Node {
	r := v.Result
	if r == nil {
		return P(g.Text("No result yet."))
	}
	verdict := "Your land is eligible for cultivation."
	if !r.OverallEligible {
		verdict = "Your land does not meet all the requirements for cultivation."
	}
	criteria := []criterion{
		{"Climate zone", r.ClimateZoneEligible},
		{"Soil type", r.SoilTypeEligible},
		{"Water", r.WaterEligible},
		{"Rocks and stones", r.StonesEligible},
		{"Landslide risk", r.LandslideEligible},
	}
	return Section(Class("results"),
		H2(g.Text(stepTitles[wizard.StepResults])),
		P(Class("verdict"), g.Text(verdict)),
		Table(
			TBody(g.Map(criteria, func(c criterion) g.Node {
				status := "Suitable"
				if !c.ok {
					status = "Not suitable"
				}
				return Tr(Th(g.Text(c.label)), Td(g.Text(status)))
			})),
		),
		g.If(!r.SoilTypeEligible, P(Class("advisory warning"),
			g.Text("Soil treatment may be required; this does not affect your eligibility."))),
		P(A(Href(ResultsURL(v.State.LandSize, v.State.FullName())), g.Text("View your investment projection"))),
		FormEl(Method("post"), Action("/eligibility"),
			Button(Type("submit"), Name("action"), Value("restart"), g.Text("Start a new check")),
		),
	)
}

// ResultsURL links to the projection page for a parcel.
func ResultsURL(landSize float64, name string) string {
	u := fmt.Sprintf("/results/%s", strconv.FormatFloat(landSize, 'f', -1, 64))
	if name != "" {
		u += "?name=" + url.QueryEscape(name)
	}
	return u
}
