package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateCollection creates a named grouping. Names are unique per owner.
func (s *FavoriteService) CreateCollection(ctx context.Context, userID uuid.UUID, req *types.CreateCollectionRequest) (*models.Collection, error) {
	collection := models.Collection{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		IsPublic:    req.IsPublic,
		Tags:        dedupeTags(req.Tags),
	}
	if err := s.db.WithContext(ctx).Create(&collection).Error; err != nil {
		return nil, translateDBError(err, "collection", fmt.Sprintf("%s/%s", userID, req.Name))
	}
	return &collection, nil
}

// DeleteCollection removes a collection and its join rows. Ownership is
// checked so one user cannot delete another's collection by ID.
func (s *FavoriteService) DeleteCollection(ctx context.Context, userID, collectionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", collectionID, userID).Delete(&models.Collection{})
		if res.Error != nil {
			return translateDBError(res.Error, "collection", collectionID.String())
		}
		if res.RowsAffected == 0 {
			return notFoundErr("collection", collectionID.String())
		}
		if err := tx.Where("collection_id = ?", collectionID).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return translateDBError(err, "collection", collectionID.String())
		}
		return nil
	})
}

// AddToCollection adds a recipe to a collection. Adding an already-present
// pair is a no-op thanks to the on-conflict clause, not an error.
func (s *FavoriteService) AddToCollection(ctx context.Context, collectionID, recipeID uuid.UUID) error {
	entry := models.CollectionRecipe{
		CollectionID: collectionID,
		RecipeID:     recipeID,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return translateDBError(err, "collection recipe",
			fmt.Sprintf("%s/%s", collectionID, recipeID))
	}
	return nil
}

// RemoveFromCollection removes a recipe from a collection; removing an absent
// pair is a no-op.
func (s *FavoriteService) RemoveFromCollection(ctx context.Context, collectionID, recipeID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("collection_id = ? AND recipe_id = ?", collectionID, recipeID).
		Delete(&models.CollectionRecipe{}).Error
	if err != nil {
		return translateDBError(err, "collection recipe",
			fmt.Sprintf("%s/%s", collectionID, recipeID))
	}
	return nil
}

// GetCollections returns the user's collections, newest first.
func (s *FavoriteService) GetCollections(ctx context.Context, userID uuid.UUID) ([]models.Collection, error) {
	var collections []models.Collection
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&collections).Error
	if err != nil {
		return nil, translateDBError(err, "collection", userID.String())
	}
	return collections, nil
}

// GetCollectionMeals returns the recipes of a collection in the order they
// were added.
func (s *FavoriteService) GetCollectionMeals(ctx context.Context, collectionID uuid.UUID) ([]models.Recipe, error) {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, "id = ?", collectionID).Error; err != nil {
		return nil, translateDBError(err, "collection", collectionID.String())
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Joins("JOIN collection_recipes ON collection_recipes.recipe_id = recipes.id").
		Where("collection_recipes.collection_id = ?", collectionID).
		Order("collection_recipes.added_at").
		Find(&recipes).Error
	if err != nil {
		return nil, translateDBError(err, "collection", collectionID.String())
	}
	return recipes, nil
}
