package compare

import (
	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/services/catalog"
)

// Compare resolves guessName in the catalog and compares each attribute with the answer.
// Values in the report are the guessed Skylander's; matching ignores case.
func Compare(guessName string, answer model.Skylander, cat *catalog.Catalog) (model.ComparisonReport, error) {
	guess, err := cat.Get(guessName)
	if err != nil {
		return model.ComparisonReport{}, err
	}
	return Attributes(guess, answer), nil
}

// Attributes compares two known Skylanders attribute by attribute
func Attributes(guess, answer model.Skylander) model.ComparisonReport {
	var report model.ComparisonReport
	for _, attr := range model.Attributes {
		*report.Field(attr) = model.AttributeComparison{
			Value:     guess.Value(attr),
			IsCorrect: catalog.EqualFold(guess.Value(attr), answer.Value(attr)),
		}
	}
	return report
}
