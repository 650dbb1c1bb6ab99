package engine

import "golang.org/x/text/language"

// Labels holds the format strings used for breakdown labels.
// Amounts are rendered without currency formatting; that belongs to output.
type Labels struct {
	Base          string // product
	Width         string // increments, price per increment
	Height        string // increments, price per increment
	AreaOption    string // option, area m², price per m²
	FlatOption    string // option
	PerItem       string // option, quantity, unit price
	PerLength     string // option, instances, width m, price per m
	Region        string // region
	AreaSurcharge string // threshold m²
}

// English is the default label set
var English = Labels{
	Base:          "Base (%s)",
	Width:         "Width surcharge (%d × %s)",
	Height:        "Height surcharge (%d × %s)",
	AreaOption:    "%s (%s m² × €%s)",
	FlatOption:    "%s (one-time)",
	PerItem:       "%s (%d × €%s)",
	PerLength:     "%s (%d × %s m × €%s)",
	Region:        "Regional rate (%s)",
	AreaSurcharge: "Small area surcharge (< %s m²)",
}

// Dutch matches the labels shown to buyers in the configurator
var Dutch = Labels{
	Base:          "Basis (%s)",
	Width:         "Breedte toeslag (%d × %s)",
	Height:        "Hoogte toeslag (%d × %s)",
	AreaOption:    "%s (%s m² × €%s)",
	FlatOption:    "%s (vast)",
	PerItem:       "%s (%d × €%s)",
	PerLength:     "%s (%d × %s m × €%s)",
	Region:        "Regionaal tarief (%s)",
	AreaSurcharge: "Kleine oppervlakte toeslag (< %s m²)",
}

var (
	supportedTags = []language.Tag{language.English, language.Dutch}
	labelSets     = []Labels{English, Dutch}
	matcher       = language.NewMatcher(supportedTags)
)

// LabelsFor returns the closest label set for tag, falling back to English
func LabelsFor(tag language.Tag) Labels {
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return English
	}
	return labelSets[index]
}

// SupportedLanguages lists the tags LabelsFor can match
func SupportedLanguages() []language.Tag {
	return append([]language.Tag(nil), supportedTags...)
}
