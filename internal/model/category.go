package model

// Category is a fixed coverage category from the product catalog.
type Category string

const (
	CategoryHealth      Category = "Health"
	CategoryLife        Category = "Life"
	CategoryRetirement  Category = "Retirement"
	CategoryHome        Category = "Home"
	CategoryCar         Category = "Car"
	CategoryLiability   Category = "Liability"
	CategoryIncome      Category = "Income"
	CategoryTravel      Category = "Travel"
	CategoryAccident    Category = "Accident"
	CategoryPet         Category = "Pet"
	CategoryElectronics Category = "Electronics"
	CategoryLegal       Category = "Legal"
	CategoryCyber       Category = "Cyber"
)

// Categories returns every known coverage category in catalog order.
func Categories() []Category {
	return []Category{
		CategoryHealth, CategoryLife, CategoryRetirement, CategoryHome,
		CategoryCar, CategoryLiability, CategoryIncome, CategoryTravel,
		CategoryAccident, CategoryPet, CategoryElectronics, CategoryLegal,
		CategoryCyber,
	}
}

// Valid reports whether c belongs to the fixed category enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
