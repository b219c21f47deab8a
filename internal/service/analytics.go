package service

import (
	"sort"
	"strings"

	"github.com/pageza/mealplanner-v2/backend/internal/models"
)

// FavoriteStats is the derived read-side summary of a user's favorites.
// Everything here is computed from already-fetched rows; no queries run.
type FavoriteStats struct {
	TotalFavorites    int            `json:"total_favorites"`
	AverageRating     float64        `json:"average_rating"`
	TopCuisines       []CountedLabel `json:"top_cuisines"`
	TopIngredients    []CountedLabel `json:"top_ingredients"`
	CookTimeHistogram map[string]int `json:"cook_time_histogram"`
	MealTypes         map[string]int `json:"meal_types"`
}

// CountedLabel is one (label, count) pair in a frequency ranking.
type CountedLabel struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Cook-time histogram buckets, minutes of total time.
var histogramBuckets = []struct {
	label string
	max   int
}{
	{"0-15", 15},
	{"16-30", 30},
	{"31-45", 45},
	{"46-60", 60},
	{"60+", 1 << 30},
}

// ComputeFavoriteStats reduces a favorites list (recipes hydrated) into a
// FavoriteStats. Deterministic for a given input: rankings sort by count
// descending with ties broken by first appearance.
func ComputeFavoriteStats(favorites []models.Favorite, topN int) *FavoriteStats {
	stats := &FavoriteStats{
		TotalFavorites:    len(favorites),
		CookTimeHistogram: map[string]int{},
		MealTypes:         map[string]int{},
	}
	for _, b := range histogramBuckets {
		stats.CookTimeHistogram[b.label] = 0
	}

	cuisines := newCounter()
	ingredients := newCounter()
	ratingSum, ratingCount := 0, 0

	for _, fav := range favorites {
		if fav.PersonalRating != nil {
			ratingSum += *fav.PersonalRating
			ratingCount++
		}
		if fav.Recipe == nil {
			continue
		}

		if fav.Recipe.Cuisine != "" {
			cuisines.add(strings.ToLower(fav.Recipe.Cuisine))
		}
		if fav.Recipe.MealType != "" {
			stats.MealTypes[fav.Recipe.MealType]++
		}
		stats.CookTimeHistogram[bucketFor(fav.Recipe.TotalTime)]++

		for _, ing := range fav.Recipe.Ingredients {
			if name := NormalizeIngredientName(ing.Name); name != "" {
				ingredients.add(name)
			}
		}
	}

	if ratingCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(ratingCount)
	}
	stats.TopCuisines = cuisines.top(topN)
	stats.TopIngredients = ingredients.top(topN)
	return stats
}

func bucketFor(totalTime int) string {
	for _, b := range histogramBuckets {
		if totalTime <= b.max {
			return b.label
		}
	}
	return histogramBuckets[len(histogramBuckets)-1].label
}

// NormalizeIngredientName strips leading quantity tokens ("2", "1/2",
// "200g", "3.5") so "2 cloves garlic" and "4 cloves garlic" count together.
func NormalizeIngredientName(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	for len(fields) > 0 && isQuantityToken(fields[0]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func isQuantityToken(tok string) bool {
	hasDigit := false
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '/' || r == '.' || r == ',' || r == '-':
		case r >= 'a' && r <= 'z':
			// Unit suffix glued to a number, e.g. "200g", "1.5kg".
			if !hasDigit {
				return false
			}
		default:
			return false
		}
	}
	return hasDigit
}

// counter tracks frequencies while remembering insertion order for
// deterministic tie-breaks.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(n int) []CountedLabel {
	ranked := make([]CountedLabel, 0, len(c.order))
	for _, key := range c.order {
		ranked = append(ranked, CountedLabel{Label: key, Count: c.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
