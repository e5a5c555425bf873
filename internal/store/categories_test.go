package store

import (
	"context"
	"errors"
	"testing"

	"github.com/adamwonghui/Warehouse-Management-System/internal/db"
	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

func TestCreateCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, err := CreateCategory(ctx, database, "Electronics", "gadgets")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.Name != "Electronics" || category.Description != "gadgets" {
		t.Errorf("unexpected category %+v", category)
	}
	if category.ItemCount != 0 {
		t.Errorf("expected empty category, got %d items", category.ItemCount)
	}

	if _, err := CreateCategory(ctx, database, "Electronics", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for duplicate name, got %v", err)
	}
	if _, err := CreateCategory(ctx, database, "  ", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for blank name, got %v", err)
	}
}

func TestDefaultCategorySeeded(t *testing.T) {
	database := db.NewTestDB(t)

	categories, err := ListCategories(context.Background(), database)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != model.DefaultCategory {
		t.Errorf("expected only the default category, got %v", categories)
	}
}

func TestUpdateCategoryRenameCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "Electronics", "")
	item, _ := CreateItem(ctx, database, "Laptop", "Electronics", "", 1, 1)

	newName := "Tech"
	updated, err := UpdateCategory(ctx, database, category.ID, &newName, nil)
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if updated.Name != "Tech" {
		t.Errorf("expected Tech, got %q", updated.Name)
	}
	if updated.ItemCount != 1 {
		t.Errorf("expected item count 1 after rename, got %d", updated.ItemCount)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Category != "Tech" {
		t.Errorf("expected item recategorized to Tech, got %q", got.Category)
	}
}

func TestUpdateCategoryNameTaken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateCategory(ctx, database, "Electronics", "")
	other, _ := CreateCategory(ctx, database, "Furniture", "")

	taken := "Electronics"
	if _, err := UpdateCategory(ctx, database, other.ID, &taken, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for taken name, got %v", err)
	}
}

func TestDefaultCategoryProtected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	categories, _ := ListCategories(ctx, database)
	defaultID := categories[0].ID

	newName := "Misc"
	if _, err := UpdateCategory(ctx, database, defaultID, &newName, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument renaming default category, got %v", err)
	}
	if err := DeleteCategory(ctx, database, defaultID); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument deleting default category, got %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "Electronics", "")
	CreateItem(ctx, database, "Laptop", "Electronics", "", 1, 1)

	if err := DeleteCategory(ctx, database, category.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState deleting non-empty category, got %v", err)
	}

	empty, _ := CreateCategory(ctx, database, "Furniture", "")
	if err := DeleteCategory(ctx, database, empty.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := DeleteCategory(ctx, database, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
