package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sopworks/sopdb/internal/models"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/utils"
	"gorm.io/gorm"
)

// shrinkStepRetry swaps the media-update retry policy for a fast one and
// restores it when the test ends.
func shrinkStepRetry(t *testing.T) {
	t.Helper()
	saved := services.StepRetry
	services.StepRetry = utils.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxJitter: time.Millisecond}
	t.Cleanup(func() { services.StepRetry = saved })
}

func seedSOPWithSteps(t *testing.T, db *gorm.DB, instructions ...string) (string, []string) {
	t.Helper()
	sop, err := services.CreateSOP(db, "user-1", services.SOPInput{Title: "Backup Procedure"})
	if err != nil {
		t.Fatalf("CreateSOP failed: %v", err)
	}
	ids := make([]string, 0, len(instructions))
	for _, text := range instructions {
		step, err := services.AddStep(db, sop.SopID, services.StepInput{Instructions: text})
		if err != nil {
			t.Fatalf("AddStep failed: %v", err)
		}
		ids = append(ids, step.StepID)
	}
	return sop.SopID, ids
}

func stepOrder(t *testing.T, db *gorm.DB, sopID string) []int {
	t.Helper()
	var steps []models.Step
	if err := db.Where("sop_id = ?", sopID).Order("order_index ASC").Find(&steps).Error; err != nil {
		t.Fatalf("Failed to load steps: %v", err)
	}
	order := make([]int, len(steps))
	for i, s := range steps {
		order[i] = s.OrderIndex
	}
	return order
}

func TestAddStepNumbersAfterLast(t *testing.T) {
	db := setupTestDB(t)
	sopID, _ := seedSOPWithSteps(t, db, "one", "two")

	step, err := services.AddStep(db, sopID, services.StepInput{Instructions: "three"})
	if err != nil {
		t.Fatalf("AddStep failed: %v", err)
	}
	if step.OrderIndex != 3 {
		t.Errorf("Expected order_index 3, got %d", step.OrderIndex)
	}
}

func TestAddStepToMissingSOP(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.AddStep(db, "missing-sop", services.StepInput{Instructions: "orphan"})
	if err != services.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteStepRenumbersContiguously(t *testing.T) {
	db := setupTestDB(t)
	sopID, ids := seedSOPWithSteps(t, db, "one", "two", "three")

	// Delete the middle step; the survivors must renumber to 1..2.
	if err := services.DeleteStep(db, ids[1]); err != nil {
		t.Fatalf("DeleteStep failed: %v", err)
	}

	order := stepOrder(t, db, sopID)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Expected contiguous order [1 2], got %v", order)
	}

	var first models.Step
	db.Where("sop_id = ? AND order_index = 1", sopID).First(&first)
	if first.Instructions != "one" {
		t.Errorf("Expected surviving step 1 to be %q, got %q", "one", first.Instructions)
	}
	var second models.Step
	db.Where("sop_id = ? AND order_index = 2", sopID).First(&second)
	if second.Instructions != "three" {
		t.Errorf("Expected surviving step 2 to be %q, got %q", "three", second.Instructions)
	}
}

func TestMoveStepSwapsNeighbors(t *testing.T) {
	db := setupTestDB(t)
	sopID, ids := seedSOPWithSteps(t, db, "one", "two", "three")

	moved, err := services.MoveStep(db, ids[0], "down")
	if err != nil {
		t.Fatalf("MoveStep failed: %v", err)
	}
	if !moved {
		t.Fatal("Expected the step to move")
	}

	var step models.Step
	db.Where("step_id = ?", ids[0]).First(&step)
	if step.OrderIndex != 2 {
		t.Errorf("Expected order_index 2 after move, got %d", step.OrderIndex)
	}

	order := stepOrder(t, db, sopID)
	if order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("Expected contiguous order after move, got %v", order)
	}
}

func TestMoveStepBoundaryIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one", "two")

	moved, err := services.MoveStep(db, ids[0], "up")
	if err != nil {
		t.Fatalf("MoveStep failed: %v", err)
	}
	if moved {
		t.Error("Expected no move at the top boundary")
	}

	moved, err = services.MoveStep(db, ids[1], "down")
	if err != nil {
		t.Fatalf("MoveStep failed: %v", err)
	}
	if moved {
		t.Error("Expected no move at the bottom boundary")
	}
}

func TestMoveStepRejectsUnknownDirection(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one", "two")

	if _, err := services.MoveStep(db, ids[0], "sideways"); err == nil {
		t.Fatal("Expected an error for an unknown direction")
	}
}

func TestReorderSteps(t *testing.T) {
	db := setupTestDB(t)
	sopID, ids := seedSOPWithSteps(t, db, "one", "two", "three")

	if err := services.ReorderSteps(db, sopID, []string{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("ReorderSteps failed: %v", err)
	}

	var first models.Step
	db.Where("sop_id = ? AND order_index = 1", sopID).First(&first)
	if first.StepID != ids[2] {
		t.Error("Expected the reordered first step")
	}
}

func TestReorderStepsValidatesIDSet(t *testing.T) {
	db := setupTestDB(t)
	sopID, ids := seedSOPWithSteps(t, db, "one", "two")

	if err := services.ReorderSteps(db, sopID, []string{ids[0]}); err == nil {
		t.Fatal("Expected an error for a short reorder list")
	}
	if err := services.ReorderSteps(db, sopID, []string{ids[0], "stranger"}); err == nil {
		t.Fatal("Expected an error for a foreign step id")
	}
}

func TestUpdateStepFields(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one")

	title := "Prepare the area"
	role := "operator"
	step, err := services.UpdateStep(context.Background(), db, ids[0], services.StepUpdate{
		Title: &title,
		Role:  &role,
	})
	if err != nil {
		t.Fatalf("UpdateStep failed: %v", err)
	}
	if step.Title != title || step.Role != role {
		t.Errorf("Patch not applied: %+v", step)
	}
	if step.Instructions != "one" {
		t.Error("Unpatched field was changed")
	}
}

func TestUpdateStepNotFound(t *testing.T) {
	db := setupTestDB(t)

	title := "ghost"
	_, err := services.UpdateStep(context.Background(), db, "missing-step", services.StepUpdate{Title: &title})
	if err != services.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStepReplacesMedia(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one")

	// Seed two media records through the store.
	for i, url := range []string{"http://x/a.jpg", "http://x/b.jpg"} {
		media := &models.Media{Type: models.MediaTypeImage, URL: url, Position: i + 1}
		if err := services.AppendMedia(db, ids[0], media); err != nil {
			t.Fatalf("AppendMedia failed: %v", err)
		}
	}
	existing, err := services.GetStepMedia(db, ids[0])
	if err != nil {
		t.Fatalf("GetStepMedia failed: %v", err)
	}

	// Replace the list: keep the second with a new caption, add a new one,
	// drop the first. Last write wins.
	step, err := services.UpdateStep(context.Background(), db, ids[0], services.StepUpdate{
		HasMedia: true,
		Media: types.FlexList[services.MediaInput]{
			{ID: existing[1].MediaID, Caption: "close-up"},
			{Type: models.MediaTypeVideo, URL: "http://x/c.mp4"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateStep failed: %v", err)
	}

	if len(step.Media) != 2 {
		t.Fatalf("Expected 2 media, got %d", len(step.Media))
	}
	if step.Media[0].MediaID != existing[1].MediaID || step.Media[0].Caption != "close-up" {
		t.Errorf("Kept media not updated: %+v", step.Media[0])
	}
	if step.Media[0].Position != 1 || step.Media[1].Position != 2 {
		t.Errorf("Positions not rewritten: %d, %d", step.Media[0].Position, step.Media[1].Position)
	}
	if step.Media[1].Type != models.MediaTypeVideo {
		t.Errorf("New media not created: %+v", step.Media[1])
	}

	var count int64
	db.Model(&models.Media{}).Where("media_id = ?", existing[0].MediaID).Count(&count)
	if count != 0 {
		t.Error("Dropped media record still present")
	}
}

func TestUpdateStepMediaPathRetriesTransientFailures(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one")
	shrinkStepRetry(t)

	// Fail the media insert twice; the third attempt goes through.
	attempts := 0
	err := db.Callback().Create().Before("gorm:create").Register("flaky_media_create", func(tx *gorm.DB) {
		if tx.Statement.Table != "media" {
			return
		}
		attempts++
		if attempts < 3 {
			tx.AddError(errors.New("deadlock found when trying to get lock"))
		}
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}
	t.Cleanup(func() { _ = db.Callback().Create().Remove("flaky_media_create") })

	step, err := services.UpdateStep(context.Background(), db, ids[0], services.StepUpdate{
		HasMedia: true,
		Media: types.FlexList[services.MediaInput]{
			{Type: models.MediaTypeImage, URL: "http://x/a.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateStep failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if len(step.Media) != 1 {
		t.Errorf("Expected the media to persist on the final attempt, got %d records", len(step.Media))
	}
}

func TestUpdateStepMediaPathSurfacesLastError(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one")
	shrinkStepRetry(t)

	attempts := 0
	err := db.Callback().Create().Before("gorm:create").Register("dead_media_create", func(tx *gorm.DB) {
		if tx.Statement.Table != "media" {
			return
		}
		attempts++
		tx.AddError(errors.New("storage gone"))
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}
	t.Cleanup(func() { _ = db.Callback().Create().Remove("dead_media_create") })

	_, err = services.UpdateStep(context.Background(), db, ids[0], services.StepUpdate{
		HasMedia: true,
		Media: types.FlexList[services.MediaInput]{
			{Type: models.MediaTypeImage, URL: "http://x/a.jpg"},
		},
	})
	if err == nil || err.Error() != "storage gone" {
		t.Fatalf("Expected the last attempt's error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected all 3 attempts to run, got %d", attempts)
	}
}

func TestUpdateStepFieldOnlyPathDoesNotRetry(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one")
	shrinkStepRetry(t)

	attempts := 0
	err := db.Callback().Update().Before("gorm:update").Register("failing_step_update", func(tx *gorm.DB) {
		if tx.Statement.Table != "steps" {
			return
		}
		attempts++
		tx.AddError(errors.New("connection reset"))
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}
	t.Cleanup(func() { _ = db.Callback().Update().Remove("failing_step_update") })

	title := "Prepare the area"
	_, err = services.UpdateStep(context.Background(), db, ids[0], services.StepUpdate{Title: &title})
	if err == nil {
		t.Fatal("Expected the update error to surface")
	}
	if attempts != 1 {
		t.Errorf("Expected a single attempt without media, got %d", attempts)
	}
}

func TestUpdateStepClearsMediaWithEmptyList(t *testing.T) {
	db := setupTestDB(t)
	_, ids := seedSOPWithSteps(t, db, "one")

	media := &models.Media{Type: models.MediaTypeImage, URL: "http://x/a.jpg"}
	if err := services.AppendMedia(db, ids[0], media); err != nil {
		t.Fatalf("AppendMedia failed: %v", err)
	}

	step, err := services.UpdateStep(context.Background(), db, ids[0], services.StepUpdate{
		HasMedia: true,
		Media:    types.FlexList[services.MediaInput]{},
	})
	if err != nil {
		t.Fatalf("UpdateStep failed: %v", err)
	}
	if len(step.Media) != 0 {
		t.Errorf("Expected empty media list, got %d", len(step.Media))
	}
}
