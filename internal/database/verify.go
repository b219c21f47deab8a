package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// requiredTables maps each table to the columns every environment must have.
// Used by the health endpoint and the seed command to fail fast on a stale
// schema instead of surfacing column errors mid-request.
var requiredTables = map[string][]string{
	"users":              {"id", "username", "email", "password_hash", "preferences"},
	"recipes":            {"id", "name", "ingredients", "instructions", "prep_time", "cook_time", "total_time", "difficulty", "avg_rating", "rating_count", "tags"},
	"meal_plans":         {"id", "user_id", "name", "week_start_date", "is_active"},
	"meal_plan_items":    {"meal_plan_id", "day_of_week", "meal_type", "recipe_id"},
	"favorites":          {"user_id", "recipe_id", "personal_rating", "personal_notes", "use_count", "added_at"},
	"collections":        {"id", "user_id", "name", "is_public", "tags"},
	"collection_recipes": {"collection_id", "recipe_id", "added_at"},
}

// VerifySchema checks that every required table and column exists and returns
// a single error listing everything that is missing.
func VerifySchema(db *gorm.DB) error {
	var missing []string

	for table, columns := range requiredTables {
		if !db.Migrator().HasTable(table) {
			missing = append(missing, fmt.Sprintf("table %s", table))
			continue
		}
		for _, col := range columns {
			if !db.Migrator().HasColumn(table, col) {
				missing = append(missing, fmt.Sprintf("column %s.%s", table, col))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("schema verification failed: missing %s", strings.Join(missing, ", "))
	}
	return nil
}
