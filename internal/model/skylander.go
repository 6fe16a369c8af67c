package model

// Skylander is a guessable catalog entity
type Skylander struct {
	Name    string `json:"name"`
	Element string `json:"element"`
	Gender  string `json:"gender"`
	Game    string `json:"game"`
	Species string `json:"species"`
}

// Attribute names a comparable Skylander field
type Attribute string

const (
	AttributeName    Attribute = "name"
	AttributeElement Attribute = "element"
	AttributeGender  Attribute = "gender"
	AttributeGame    Attribute = "game"
	AttributeSpecies Attribute = "species"
)

// Attributes lists the compared fields in report order
var Attributes = []Attribute{
	AttributeName,
	AttributeElement,
	AttributeGender,
	AttributeGame,
	AttributeSpecies,
}

// Value returns the Skylander's value for the given attribute
func (s Skylander) Value(attr Attribute) string {
	switch attr {
	case AttributeName:
		return s.Name
	case AttributeElement:
		return s.Element
	case AttributeGender:
		return s.Gender
	case AttributeGame:
		return s.Game
	case AttributeSpecies:
		return s.Species
	default:
		return ""
	}
}

// AttributeComparison is the result of comparing one attribute of a guess
type AttributeComparison struct {
	Value     string `json:"value"`
	IsCorrect bool   `json:"is_correct"`
}

// ComparisonReport is the field-by-field result of comparing a guess with the daily answer
type ComparisonReport struct {
	Name    AttributeComparison `json:"name"`
	Element AttributeComparison `json:"element"`
	Gender  AttributeComparison `json:"gender"`
	Game    AttributeComparison `json:"game"`
	Species AttributeComparison `json:"species"`
}

// Field returns a pointer to the comparison for the given attribute
func (r *ComparisonReport) Field(attr Attribute) *AttributeComparison {
	switch attr {
	case AttributeName:
		return &r.Name
	case AttributeElement:
		return &r.Element
	case AttributeGender:
		return &r.Gender
	case AttributeGame:
		return &r.Game
	case AttributeSpecies:
		return &r.Species
	default:
		return nil
	}
}

// Correct returns true if every attribute matched
func (r ComparisonReport) Correct() bool {
	return r.Name.IsCorrect &&
		r.Element.IsCorrect &&
		r.Gender.IsCorrect &&
		r.Game.IsCorrect &&
		r.Species.IsCorrect
}

// GuessResult is the outcome of a single guess against the daily answer
type GuessResult struct {
	Correct    bool
	Comparison ComparisonReport
}
