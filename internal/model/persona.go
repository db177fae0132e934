package model

// Persona is a client segment derived from age and income band.
type Persona string

const (
	PersonaYoungProfessional    Persona = "Young Professional"
	PersonaGrowingFamily        Persona = "Growing Family"
	PersonaEstablishedHousehold Persona = "Established Household"
	PersonaPreRetiree           Persona = "Pre-Retiree"
	PersonaRetiree              Persona = "Retiree"
	PersonaHighNetWorth         Persona = "High Net Worth"
	PersonaBusinessOwner        Persona = "Business Owner"
)

// Personas returns every known client segment.
func Personas() []Persona {
	return []Persona{
		PersonaYoungProfessional, PersonaGrowingFamily,
		PersonaEstablishedHousehold, PersonaPreRetiree, PersonaRetiree,
		PersonaHighNetWorth, PersonaBusinessOwner,
	}
}
