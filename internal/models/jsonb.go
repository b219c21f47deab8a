package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Notes  string  `json:"notes,omitempty"`
}

// IngredientList stores the structured ingredient list as JSONB.
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Nutrition holds the optional per-serving nutrition breakdown of a recipe.
type Nutrition struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
	Sodium   *float64 `json:"sodium,omitempty"`
}

// Value implements the driver.Valuer interface
func (n Nutrition) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements the sql.Scanner interface
func (n *Nutrition) Scan(value interface{}) error {
	if value == nil {
		*n = Nutrition{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, n)
}

// DietaryPreferences is the structured preference document stored on a user.
type DietaryPreferences struct {
	DietType      string   `json:"diet_type,omitempty"`
	Allergies     []string `json:"allergies,omitempty"`
	Dislikes      []string `json:"dislikes,omitempty"`
	CalorieTarget *int     `json:"calorie_target,omitempty"`
}

// Value implements the driver.Valuer interface
func (p DietaryPreferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *DietaryPreferences) Scan(value interface{}) error {
	if value == nil {
		*p = DietaryPreferences{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, p)
}
