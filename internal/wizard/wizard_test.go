package wizard_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopworks/sopdb/internal/wizard"
)

type fakeCreator struct {
	sopID     string
	createErr error
	// failAtStep fails AddStep for the given 1-based index; 0 disables.
	failAtStep int
	steps      []wizard.StepDraft
	draft      *wizard.Draft
}

func (f *fakeCreator) CreateSOP(ctx context.Context, draft *wizard.Draft) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.draft = draft
	if f.sopID == "" {
		f.sopID = "sop-test"
	}
	return f.sopID, nil
}

func (f *fakeCreator) AddStep(ctx context.Context, sopID string, index int, step wizard.StepDraft) error {
	if f.failAtStep != 0 && index == f.failAtStep {
		return errors.New("backend unavailable")
	}
	f.steps = append(f.steps, step)
	return nil
}

func send(t *testing.T, w *wizard.Wizard, draft *wizard.Draft, messages ...string) wizard.Reply {
	t.Helper()
	var reply wizard.Reply
	var err error
	for _, msg := range messages {
		reply, err = w.Handle(context.Background(), draft, msg)
		require.NoError(t, err, "message %q", msg)
	}
	return reply
}

// drive the conversation up to the finalize prompt, skipping 5S.
func draftReadyToFinalize(t *testing.T, w *wizard.Wizard, draft *wizard.Draft, steps ...string) {
	t.Helper()
	messages := []string{"Backup Procedure", "Nightly backups for the file server", "IT"}
	messages = append(messages, steps...)
	messages = append(messages, "done", "none", "no")
	send(t, w, draft, messages...)
	require.Equal(t, wizard.StageFinalize, draft.Stage)
}

func TestWizardCollectsMetadataAndSteps(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	send(t, w, draft, "Backup Procedure", "Nightly backups", "IT", "Mount the drive", "Run the job")

	assert.Equal(t, "Backup Procedure", draft.Title)
	assert.Equal(t, "Nightly backups", draft.Description)
	assert.Equal(t, "IT", draft.Category)
	require.Len(t, draft.Steps, 2)
	assert.Equal(t, "Run the job", draft.Steps[1].Instructions)
	assert.Equal(t, wizard.StageSteps, draft.Stage)
}

func TestWizardStartOverClearsEverything(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	send(t, w, draft, "Backup Procedure", "Nightly backups", "IT", "Mount the drive")
	reply := send(t, w, draft, "start over")

	assert.Contains(t, reply.Text, "title")
	assert.Empty(t, draft.Title)
	assert.Empty(t, draft.Steps)
	assert.Empty(t, draft.Messages, "transcript must be cleared too")
	assert.Equal(t, wizard.StageTitle, draft.Stage)
}

func TestWizardEquipmentNoneSkipsToFiveSPrompt(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	send(t, w, draft, "Backup Procedure", "Nightly backups", "IT", "Mount the drive", "done", "none")

	assert.Equal(t, wizard.StageFiveSPrompt, draft.Stage)
	assert.Empty(t, draft.Equipment)
}

func TestWizardCollectsEquipmentAndFiveS(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	send(t, w, draft, "Backup Procedure", "Nightly backups", "IT", "Mount the drive", "done",
		"external drive", "label printer", "done",
		"yes", "Old tapes", "Drives on the left shelf", "Dust the rack weekly", "Post the checklist", "Monthly audit")

	assert.Equal(t, []string{"external drive", "label printer"}, draft.Equipment)
	assert.Equal(t, "Old tapes", draft.FiveS.Sort)
	assert.Equal(t, "Monthly audit", draft.FiveS.Sustain)
	assert.Equal(t, wizard.StageFinalize, draft.Stage)
}

func TestWizardDecliningFiveSShowsSummary(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	messages := []string{"Backup Procedure", "Nightly backups", "IT", "Mount the drive", "done", "none"}
	reply := send(t, w, draft, append(messages, "no")...)

	assert.Equal(t, wizard.StageFinalize, draft.Stage)
	assert.Contains(t, reply.Text, "Backup Procedure")
	assert.Contains(t, strings.ToLower(reply.Text), "yes")
}

func TestWizardFinalizeCreatesSOPAndSteps(t *testing.T) {
	creator := &fakeCreator{}
	w := &wizard.Wizard{Creator: creator}
	draft := wizard.NewDraft()

	draftReadyToFinalize(t, w, draft, "Mount the drive", "Run the job", "Verify the log")
	reply := send(t, w, draft, "yes")

	assert.True(t, reply.Finalized)
	assert.True(t, reply.Cleared)
	assert.Equal(t, "sop-test", reply.SopID)
	require.NotNil(t, creator.draft)
	assert.Equal(t, "Backup Procedure", creator.draft.Title)
	assert.Len(t, creator.steps, 3)
}

func TestWizardFinalizePartialFailureKeepsEarlierSteps(t *testing.T) {
	creator := &fakeCreator{failAtStep: 3}
	w := &wizard.Wizard{Creator: creator}
	draft := wizard.NewDraft()

	draftReadyToFinalize(t, w, draft, "Mount the drive", "Run the job", "Verify the log")

	reply, err := w.Handle(context.Background(), draft, "yes")
	require.Error(t, err)
	assert.False(t, reply.Finalized)
	assert.Len(t, creator.steps, 2, "steps before the failure stay created")
	assert.Contains(t, reply.Text, fmt.Sprintf("step %d of %d", 3, 3))
}

func TestWizardCancelAsksForConfirmation(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	send(t, w, draft, "Backup Procedure")
	reply := send(t, w, draft, "cancel")

	assert.False(t, reply.Cleared)
	assert.Equal(t, wizard.StageConfirmCancel, draft.Stage)

	// Declining the confirmation resumes where we were.
	reply = send(t, w, draft, "keep going")
	assert.Equal(t, wizard.StageDescription, draft.Stage)
	assert.Contains(t, strings.ToLower(reply.Text), "keeping")

	// Confirming discards.
	send(t, w, draft, "cancel")
	reply = send(t, w, draft, "yes")
	assert.True(t, reply.Cleared)
	assert.Empty(t, draft.Title)
}

func TestWizardCancelWithEmptyDraftClearsImmediately(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	reply := send(t, w, draft, "cancel")
	assert.True(t, reply.Cleared)
}

func TestWizardPreviewAndExport(t *testing.T) {
	w := &wizard.Wizard{Creator: &fakeCreator{}}
	draft := wizard.NewDraft()

	send(t, w, draft, "Backup Procedure", "Nightly backups", "IT", "Mount the drive")

	preview := send(t, w, draft, "preview")
	assert.Contains(t, preview.Text, "Backup Procedure")
	assert.Contains(t, preview.Text, "Mount the drive")

	export := send(t, w, draft, "export")
	assert.Contains(t, export.Text, "# Backup Procedure")
	assert.Contains(t, export.Text, "1. Mount the drive")

	// Neither command advances the stage.
	assert.Equal(t, wizard.StageSteps, draft.Stage)
}
