package refdata

import "github.com/insureco/advisor-cli/internal/model"

// essentialCoverage maps each persona to the categories that persona is
// expected to hold. Order matters for opportunity emission order.
var essentialCoverage = map[model.Persona][]model.Category{
	model.PersonaYoungProfessional: {
		model.CategoryHealth, model.CategoryCar, model.CategoryLiability, model.CategoryLife,
	},
	model.PersonaGrowingFamily: {
		model.CategoryHealth, model.CategoryCar, model.CategoryHome, model.CategoryLife,
		model.CategoryIncome, model.CategoryLiability,
	},
	model.PersonaEstablishedHousehold: {
		model.CategoryHealth, model.CategoryCar, model.CategoryHome, model.CategoryLife,
		model.CategoryIncome, model.CategoryLiability, model.CategoryRetirement,
	},
	model.PersonaPreRetiree: {
		model.CategoryHealth, model.CategoryHome, model.CategoryLife,
		model.CategoryRetirement, model.CategoryIncome,
	},
	model.PersonaRetiree: {
		model.CategoryHealth, model.CategoryHome, model.CategoryLife, model.CategoryRetirement,
	},
	model.PersonaHighNetWorth: {
		model.CategoryHealth, model.CategoryCar, model.CategoryHome, model.CategoryLife,
		model.CategoryLiability, model.CategoryRetirement, model.CategoryCyber,
	},
	model.PersonaBusinessOwner: {
		model.CategoryHealth, model.CategoryCar, model.CategoryHome, model.CategoryLife,
		model.CategoryLiability, model.CategoryLegal, model.CategoryCyber,
	},
}

// optionalCoverage maps each persona to nice-to-have categories.
var optionalCoverage = map[model.Persona][]model.Category{
	model.PersonaYoungProfessional: {
		model.CategoryTravel, model.CategoryElectronics,
	},
	model.PersonaGrowingFamily: {
		model.CategoryTravel, model.CategoryAccident, model.CategoryPet,
	},
	model.PersonaEstablishedHousehold: {
		model.CategoryTravel, model.CategoryLegal, model.CategoryCyber,
	},
	model.PersonaPreRetiree: {
		model.CategoryTravel, model.CategoryLegal, model.CategoryAccident,
	},
	model.PersonaRetiree: {
		model.CategoryTravel, model.CategoryAccident,
	},
	model.PersonaHighNetWorth: {
		model.CategoryTravel, model.CategoryPet, model.CategoryElectronics, model.CategoryLegal,
	},
	model.PersonaBusinessOwner: {
		model.CategoryTravel, model.CategoryIncome,
	},
}

// EssentialCoverage returns the essential categories for a persona.
// Unknown personas get an empty list.
func EssentialCoverage(p model.Persona) []model.Category {
	return copyCategories(essentialCoverage[p])
}

// OptionalCoverage returns the optional categories for a persona.
func OptionalCoverage(p model.Persona) []model.Category {
	return copyCategories(optionalCoverage[p])
}

func copyCategories(src []model.Category) []model.Category {
	if src == nil {
		return nil
	}
	out := make([]model.Category, len(src))
	copy(out, src)
	return out
}
