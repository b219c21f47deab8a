package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteService handles per-user favorites and collections
type FavoriteService struct {
	db    *gorm.DB
	cache *FavoritesCache
}

// Ensure FavoriteService implements IFavoriteService
var _ IFavoriteService = (*FavoriteService)(nil)

// NewFavoriteService creates a new FavoriteService instance. The cache is
// advisory; pass NewFavoritesCache(nil) to disable it.
func NewFavoriteService(db *gorm.DB, cache *FavoritesCache) *FavoriteService {
	return &FavoriteService{db: db, cache: cache}
}

// AddFavorite bookmarks a recipe for a user. Re-favoriting the same recipe
// updates the rating and notes in place via an upsert on the composite key.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID uuid.UUID, req *types.AddFavoriteRequest) (*models.Favorite, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, validationErr("favorite", "rating must be between 1 and 5")
	}

	fav := models.Favorite{
		UserID:         userID,
		RecipeID:       req.RecipeID,
		PersonalRating: req.Rating,
		PersonalNotes:  req.Notes,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"personal_rating": req.Rating,
			"personal_notes":  req.Notes,
			"updated_at":      time.Now(),
		}),
	}).Create(&fav).Error
	if err != nil {
		return nil, translateDBError(err, "favorite", favKey(userID, req.RecipeID))
	}

	s.cache.Invalidate(ctx, userID)

	var result models.Favorite
	if err := s.db.WithContext(ctx).
		First(&result, "user_id = ? AND recipe_id = ?", userID, req.RecipeID).Error; err != nil {
		return nil, translateDBError(err, "favorite", favKey(userID, req.RecipeID))
	}
	return &result, nil
}

// RemoveFavorite unfavorites a recipe. Returns false (not an error) when the
// pair did not exist.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, translateDBError(res.Error, "favorite", favKey(userID, recipeID))
	}

	s.cache.Invalidate(ctx, userID)
	return res.RowsAffected > 0, nil
}

// UpdateFavoriteRating sets the personal rating on an existing favorite.
func (s *FavoriteService) UpdateFavoriteRating(ctx context.Context, userID, recipeID uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return validationErr("favorite", "rating must be between 1 and 5")
	}
	return s.updateFavoriteField(ctx, userID, recipeID, "personal_rating", rating)
}

// UpdateFavoriteNotes sets the personal notes on an existing favorite.
func (s *FavoriteService) UpdateFavoriteNotes(ctx context.Context, userID, recipeID uuid.UUID, notes string) error {
	return s.updateFavoriteField(ctx, userID, recipeID, "personal_notes", notes)
}

func (s *FavoriteService) updateFavoriteField(ctx context.Context, userID, recipeID uuid.UUID, column string, value interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Update(column, value)
	if res.Error != nil {
		return translateDBError(res.Error, "favorite", favKey(userID, recipeID))
	}
	if res.RowsAffected == 0 {
		return notFoundErr("favorite", favKey(userID, recipeID))
	}

	s.cache.Invalidate(ctx, userID)
	return nil
}

// IncrementUseCount atomically bumps the use counter and last-used timestamp
// of a favorite. A single SQL update, never read-modify-write.
func (s *FavoriteService) IncrementUseCount(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Updates(map[string]interface{}{
			"use_count":    gorm.Expr("use_count + 1"),
			"last_used_at": time.Now(),
		})
	if res.Error != nil {
		return translateDBError(res.Error, "favorite", favKey(userID, recipeID))
	}
	if res.RowsAffected == 0 {
		return notFoundErr("favorite", favKey(userID, recipeID))
	}

	s.cache.Invalidate(ctx, userID)
	return nil
}

// GetUserFavorites returns a page of the user's favorites with recipes
// hydrated, newest first. The full first page is served from the cache when
// present.
func (s *FavoriteService) GetUserFavorites(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if offset == 0 {
		if cached, ok := s.cache.Get(ctx, userID); ok && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Limit(limit).Offset(offset).
		Find(&favorites).Error
	if err != nil {
		return nil, translateDBError(err, "favorite", userID.String())
	}

	if offset == 0 {
		s.cache.Set(ctx, userID, favorites)
	}
	return favorites, nil
}

// GetFavoritesByMealType returns the user's favorites whose recipe has the
// given meal type.
func (s *FavoriteService) GetFavoritesByMealType(ctx context.Context, userID uuid.UUID, mealType string) ([]models.Favorite, error) {
	if !models.ValidMealType(mealType) {
		return nil, validationErr("favorite", fmt.Sprintf("invalid meal type %q", mealType))
	}

	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Recipe").
		Joins("JOIN recipes ON recipes.id = favorites.recipe_id").
		Where("favorites.user_id = ? AND recipes.meal_type = ?", userID, mealType).
		Order("favorites.added_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, translateDBError(err, "favorite", userID.String())
	}
	return favorites, nil
}

// IsFavorited reports whether the user has favorited the recipe.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, translateDBError(err, "favorite", favKey(userID, recipeID))
	}
	return count > 0, nil
}

// GetFavoriteStatusForRecipes answers "which of these are favorited" in one
// query instead of one per recipe.
func (s *FavoriteService) GetFavoriteStatusForRecipes(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	status := make(map[uuid.UUID]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		status[id] = false
	}
	if len(recipeIDs) == 0 {
		return status, nil
	}

	var favorited []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &favorited).Error
	if err != nil {
		return nil, translateDBError(err, "favorite", userID.String())
	}

	for _, id := range favorited {
		status[id] = true
	}
	return status, nil
}

// BulkDeleteFavorites removes several favorites best-effort: each item is
// attempted independently and failures are reported per recipe instead of
// aborting the batch.
func (s *FavoriteService) BulkDeleteFavorites(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*types.BulkResult, error) {
	result := &types.BulkResult{Failed: map[string]string{}}

	for _, recipeID := range recipeIDs {
		removed, err := s.RemoveFavorite(ctx, userID, recipeID)
		switch {
		case err != nil:
			result.Failed[recipeID.String()] = err.Error()
		case !removed:
			result.Failed[recipeID.String()] = "not favorited"
		default:
			result.Succeeded = append(result.Succeeded, recipeID)
		}
	}

	s.cache.Invalidate(ctx, userID)
	return result, nil
}

// BulkUpdateTags rewrites or extends the tags of several favorited recipes,
// best-effort per item. Only recipes the user has favorited are touched.
func (s *FavoriteService) BulkUpdateTags(ctx context.Context, userID uuid.UUID, req *types.BulkUpdateTagsRequest) (*types.BulkResult, error) {
	result := &types.BulkResult{Failed: map[string]string{}}
	newTags := dedupeTags(req.Tags)

	for _, recipeID := range req.RecipeIDs {
		favorited, err := s.IsFavorited(ctx, userID, recipeID)
		if err != nil {
			result.Failed[recipeID.String()] = err.Error()
			continue
		}
		if !favorited {
			result.Failed[recipeID.String()] = "not favorited"
			continue
		}

		var recipe models.Recipe
		if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
			result.Failed[recipeID.String()] = translateDBError(err, "recipe", recipeID.String()).Error()
			continue
		}

		tags := newTags
		if !req.Replace {
			tags = dedupeTags(append(recipe.Tags, newTags...))
		}
		if err := s.db.WithContext(ctx).Model(&recipe).Update("tags", tags).Error; err != nil {
			result.Failed[recipeID.String()] = translateDBError(err, "recipe", recipeID.String()).Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, recipeID)
	}

	s.cache.Invalidate(ctx, userID)
	return result, nil
}

func favKey(userID, recipeID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", userID, recipeID)
}
