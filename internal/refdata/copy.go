package refdata

import "github.com/insureco/advisor-cli/internal/model"

// valueStatements holds the per-category benefit copy used in emails
// and talking points.
var valueStatements = map[model.Category]string{
	model.CategoryRetirement: "tax-advantaged savings and guaranteed income in retirement, giving you financial security when you need it most",
	model.CategoryLife:       "financial security for your loved ones, ensuring your family can maintain their lifestyle if something happens to you",
	model.CategoryHealth:     "comprehensive medical coverage and peace of mind, protecting you from catastrophic healthcare costs",
	model.CategoryHome:       "complete protection for your property and belongings, plus liability coverage if someone is injured on your property",
	model.CategoryCar:        "coverage for accidents, theft, and liability, protecting both your vehicle and your financial security",
	model.CategoryIncome:     "income replacement if you become unable to work due to illness or injury, protecting your family's financial stability",
	model.CategoryLiability:  "protection against lawsuits and claims, safeguarding your personal assets beyond your primary policy limits",
	model.CategoryTravel:     "coverage for trip cancellations, medical emergencies abroad, and lost baggage, ensuring worry-free travel",
	model.CategoryCyber:      "protection against identity theft, data breaches, and cyber attacks on your personal information and finances",
	model.CategoryLegal:      "coverage for legal fees and representation in various situations, protecting you from costly legal expenses",
	model.CategoryAccident:   "financial protection if you're injured in an accident, covering medical bills and lost income",
	model.CategoryPet:        "veterinary coverage for your beloved pets, ensuring they get the care they need without financial stress",
}

// ValueStatement returns the benefit copy for a category, with a
// generic fallback for categories without dedicated copy.
func ValueStatement(c model.Category) string {
	if s, ok := valueStatements[c]; ok {
		return s
	}
	return "essential protection tailored to your specific needs and situation"
}

// personaFocus holds the one-line sales focus per persona.
var personaFocus = map[model.Persona]string{
	model.PersonaYoungProfessional:    "career protection and wealth building",
	model.PersonaGrowingFamily:        "family security and home protection",
	model.PersonaEstablishedHousehold: "comprehensive coverage and retirement planning",
	model.PersonaPreRetiree:           "retirement security and healthcare",
	model.PersonaRetiree:              "healthcare and estate protection",
	model.PersonaHighNetWorth:         "asset protection and tax optimization",
	model.PersonaBusinessOwner:        "business continuity and liability protection",
}

// PersonaFocus returns the sales focus line for a persona.
func PersonaFocus(p model.Persona) string {
	if s, ok := personaFocus[p]; ok {
		return s
	}
	return "comprehensive protection"
}
