package wizard

import (
	"context"
	"fmt"

	"github.com/sopworks/sopdb/internal/services"
	"gorm.io/gorm"
)

// StoreCreator implements Creator against the SOP and Step stores.
type StoreCreator struct {
	DB *gorm.DB
}

// CreateSOP persists the drafted SOP metadata (including equipment and 5S
// notes) as a draft-status SOP.
func (c *StoreCreator) CreateSOP(ctx context.Context, draft *Draft) (string, error) {
	input := services.SOPInput{
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Equipment:   draft.Equipment,
	}
	if draft.FiveS != (FiveS{}) {
		input.FiveS = map[string]string{
			"sort":         draft.FiveS.Sort,
			"set_in_order": draft.FiveS.SetInOrder,
			"shine":        draft.FiveS.Shine,
			"standardize":  draft.FiveS.Standardize,
			"sustain":      draft.FiveS.Sustain,
		}
	}

	ownerID, _ := ctx.Value(ownerKey{}).(string)
	sop, err := services.CreateSOP(c.DB, ownerID, input)
	if err != nil {
		return "", err
	}
	return sop.SopID, nil
}

// AddStep persists one drafted step. Numbering comes from the store's own
// max+1 rule; the store-assigned position must match the drafted index, or
// another session has modified the SOP mid-finalize.
func (c *StoreCreator) AddStep(ctx context.Context, sopID string, index int, step StepDraft) error {
	created, err := services.AddStep(c.DB, sopID, services.StepInput{
		Title:        step.Title,
		Instructions: step.Instructions,
	})
	if err != nil {
		return err
	}
	if created.OrderIndex != index {
		return fmt.Errorf("step saved at position %d, expected %d", created.OrderIndex, index)
	}
	return nil
}

type ownerKey struct{}

// WithOwner tags the context with the finalizing user's id.
func WithOwner(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, userID)
}
