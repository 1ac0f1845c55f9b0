package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sopworks/sopdb/internal/models"
	"github.com/sopworks/sopdb/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.SOP{},
		&models.Step{},
		&models.Media{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCreateSOPRequiresTitle(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.CreateSOP(db, "user-1", services.SOPInput{})
	if err == nil {
		t.Fatal("Expected an error for a missing title")
	}
}

func TestCreateSOPDefaultsToDraft(t *testing.T) {
	db := setupTestDB(t)

	sop, err := services.CreateSOP(db, "user-1", services.SOPInput{Title: "Filter Change"})
	if err != nil {
		t.Fatalf("CreateSOP failed: %v", err)
	}
	if sop.Status != models.StatusDraft {
		t.Errorf("Expected status %q, got %q", models.StatusDraft, sop.Status)
	}
	if sop.SopID == "" {
		t.Error("Expected a generated SOP id")
	}
}

func TestCreateSOPRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.CreateSOP(db, "user-1", services.SOPInput{
		Title:  "Filter Change",
		Status: "in-limbo",
	})
	if err == nil {
		t.Fatal("Expected an error for an unknown status")
	}
}

func TestUpdateSOPStatus(t *testing.T) {
	db := setupTestDB(t)

	sop, err := services.CreateSOP(db, "user-1", services.SOPInput{Title: "Filter Change"})
	if err != nil {
		t.Fatalf("CreateSOP failed: %v", err)
	}

	status := models.StatusPublished
	updated, err := services.UpdateSOP(db, sop.SopID, services.SOPUpdate{Status: &status})
	if err != nil {
		t.Fatalf("UpdateSOP failed: %v", err)
	}
	if updated.Status != models.StatusPublished {
		t.Errorf("Expected status %q, got %q", models.StatusPublished, updated.Status)
	}

	bad := "rejected"
	if _, err := services.UpdateSOP(db, sop.SopID, services.SOPUpdate{Status: &bad}); err == nil {
		t.Fatal("Expected an error for an unknown status")
	}
}

func TestUpdateSOPNotFound(t *testing.T) {
	db := setupTestDB(t)

	title := "New Title"
	_, err := services.UpdateSOP(db, "missing-id", services.SOPUpdate{Title: &title})
	if err != services.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestListSOPsScopedToOwner(t *testing.T) {
	db := setupTestDB(t)

	if _, err := services.CreateSOP(db, "user-1", services.SOPInput{Title: "Mine"}); err != nil {
		t.Fatalf("CreateSOP failed: %v", err)
	}
	if _, err := services.CreateSOP(db, "user-2", services.SOPInput{Title: "Theirs"}); err != nil {
		t.Fatalf("CreateSOP failed: %v", err)
	}

	sops, err := services.ListSOPs(db, "user-1")
	if err != nil {
		t.Fatalf("ListSOPs failed: %v", err)
	}
	if len(sops) != 1 {
		t.Fatalf("Expected 1 SOP, got %d", len(sops))
	}
	if sops[0].Title != "Mine" {
		t.Errorf("Expected own SOP, got %q", sops[0].Title)
	}
}

func TestGetSOPLoadsStepsInOrder(t *testing.T) {
	db := setupTestDB(t)

	sop, err := services.CreateSOP(db, "user-1", services.SOPInput{Title: "Backup Procedure"})
	if err != nil {
		t.Fatalf("CreateSOP failed: %v", err)
	}

	for _, text := range []string{"First", "Second", "Third"} {
		if _, err := services.AddStep(db, sop.SopID, services.StepInput{Instructions: text}); err != nil {
			t.Fatalf("AddStep failed: %v", err)
		}
	}

	loaded, err := services.GetSOP(db, sop.SopID)
	if err != nil {
		t.Fatalf("GetSOP failed: %v", err)
	}
	if len(loaded.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(loaded.Steps))
	}
	for i, step := range loaded.Steps {
		if step.OrderIndex != i+1 {
			t.Errorf("Step %d has order_index %d", i, step.OrderIndex)
		}
	}
	if loaded.Steps[0].Instructions != "First" || loaded.Steps[2].Instructions != "Third" {
		t.Error("Steps not returned in display order")
	}
}

func TestBulkCreateSOP(t *testing.T) {
	db := setupTestDB(t)

	sop, err := services.BulkCreateSOP(db, "user-1", services.SOPInput{
		Title:     "Line Changeover",
		Equipment: []string{"torque wrench", "gloves"},
	}, []services.StepInput{
		{Instructions: "Stop the line"},
		{Instructions: "Swap the tooling"},
		{Instructions: "Restart and verify"},
	})
	if err != nil {
		t.Fatalf("BulkCreateSOP failed: %v", err)
	}
	if len(sop.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(sop.Steps))
	}
	for i, step := range sop.Steps {
		if step.OrderIndex != i+1 {
			t.Errorf("Step %d has order_index %d", i, step.OrderIndex)
		}
	}
}

func TestBulkCreateSOPRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)

	// Empty title fails inside the transaction; nothing should persist.
	_, err := services.BulkCreateSOP(db, "user-1", services.SOPInput{},
		[]services.StepInput{{Instructions: "Never saved"}})
	if err == nil {
		t.Fatal("Expected an error")
	}

	var count int64
	db.Model(&models.Step{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no steps after rollback, got %d", count)
	}
}
