// Package wizard implements the conversational SOP authoring flow: a
// stage-driven dialogue that collects metadata and steps turn by turn,
// then bulk-creates the SOP through the stores.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Creator is the slice of the store layer the wizard needs to finalize.
type Creator interface {
	CreateSOP(ctx context.Context, draft *Draft) (sopID string, err error)
	AddStep(ctx context.Context, sopID string, index int, step StepDraft) error
}

// Wizard drives the conversation. It is stateless; all state lives in the
// Draft passed to Handle.
type Wizard struct {
	Creator Creator
	// StepDelay is the pause between sequential step-create calls during
	// finalize, to avoid hammering the backend. Zero in tests.
	StepDelay time.Duration
}

// Reply is the wizard's answer to one user message.
type Reply struct {
	Text      string
	Finalized bool
	Cleared   bool // draft should be removed from the store
	SopID     string
}

const helpText = "You can say: 'start over' to discard everything, " +
	"'preview' or 'summary' to see the draft so far, 'export' for a text export, " +
	"'cancel' or 'exit' to leave, and 'help' to see this again."

// Handle processes one user message against the draft and mutates the
// draft in place. Global commands are intercepted before stage dispatch.
func (w *Wizard) Handle(ctx context.Context, draft *Draft, input string) (Reply, error) {
	text := strings.TrimSpace(input)
	lower := strings.ToLower(text)

	// Global commands work from any stage.
	switch lower {
	case "start over":
		// Reply without recording so the fresh draft keeps an empty
		// transcript.
		draft.Reset()
		return Reply{Text: "Okay, starting over. What is the title of your SOP?"}, nil
	case "help":
		w.record(draft, text)
		return w.say(draft, helpText), nil
	case "preview", "summary":
		w.record(draft, text)
		return w.say(draft, w.summary(draft)), nil
	case "export":
		w.record(draft, text)
		return w.say(draft, w.export(draft)), nil
	case "cancel", "exit":
		w.record(draft, text)
		if draft.Stage != StageConfirmCancel && draft.HasContent() {
			draft.ReturnStage = draft.Stage
			draft.Stage = StageConfirmCancel
			return w.say(draft, "You have unsaved work. Type 'yes' to discard it, or anything else to keep going."), nil
		}
		draft.Reset()
		return Reply{Text: "Cancelled.", Cleared: true}, nil
	}

	w.record(draft, text)

	if text == "" {
		return w.say(draft, "I didn't catch that - please type something, or 'help' for commands."), nil
	}

	return w.dispatch(ctx, draft, text, lower)
}

func (w *Wizard) dispatch(ctx context.Context, draft *Draft, text, lower string) (Reply, error) {
	switch draft.Stage {
	case StageTitle:
		draft.Title = text
		draft.Stage = StageDescription
		return w.say(draft, fmt.Sprintf("Got it - %q. Describe what this procedure is for.", text)), nil

	case StageDescription:
		draft.Description = text
		draft.Stage = StageCategory
		return w.say(draft, "What category does this SOP belong to?"), nil

	case StageCategory:
		draft.Category = text
		draft.Stage = StageSteps
		return w.say(draft, "Now the steps. Describe step 1, or type 'done' when finished."), nil

	case StageSteps:
		if lower == "done" {
			draft.Stage = StageEquipment
			return w.say(draft, "What equipment is needed? Name one item at a time; type 'none' or 'done' to skip."), nil
		}
		draft.Steps = append(draft.Steps, StepDraft{Instructions: text})
		return w.say(draft, fmt.Sprintf("Step %d recorded. Describe step %d, or type 'done'.",
			len(draft.Steps), len(draft.Steps)+1)), nil

	case StageEquipment:
		if lower == "none" || lower == "done" {
			draft.Stage = StageFiveSPrompt
			return w.say(draft, "Would you like to add 5S workplace-organization notes? (yes/no)"), nil
		}
		draft.Equipment = append(draft.Equipment, text)
		return w.say(draft, "Added. Any more equipment? Type 'done' when finished."), nil

	case StageFiveSPrompt:
		if lower == "yes" || lower == "y" {
			draft.Stage = StageFiveSSort
			return w.say(draft, "5S Sort: what should be removed from the work area?"), nil
		}
		draft.Stage = StageFinalize
		return w.say(draft, w.summary(draft)+"\n\nType 'yes' to create this SOP."), nil

	case StageFiveSSort:
		draft.FiveS.Sort = text
		draft.Stage = StageFiveSSet
		return w.say(draft, "5S Set in Order: how should tools and materials be arranged?"), nil

	case StageFiveSSet:
		draft.FiveS.SetInOrder = text
		draft.Stage = StageFiveSShine
		return w.say(draft, "5S Shine: what cleaning or inspection is required?"), nil

	case StageFiveSShine:
		draft.FiveS.Shine = text
		draft.Stage = StageFiveSStandardize
		return w.say(draft, "5S Standardize: how will this be kept consistent?"), nil

	case StageFiveSStandardize:
		draft.FiveS.Standardize = text
		draft.Stage = StageFiveSSustain
		return w.say(draft, "5S Sustain: how will the standard be maintained over time?"), nil

	case StageFiveSSustain:
		draft.FiveS.Sustain = text
		draft.Stage = StageFinalize
		return w.say(draft, w.summary(draft)+"\n\nType 'yes' to create this SOP."), nil

	case StageFinalize:
		if lower != "yes" && lower != "y" {
			return w.say(draft, "Not saving yet. Type 'yes' to create the SOP, or 'start over' to discard."), nil
		}
		return w.finalize(ctx, draft)

	case StageConfirmCancel:
		if lower == "yes" || lower == "y" {
			draft.Reset()
			return Reply{Text: "Discarded. See you next time.", Cleared: true}, nil
		}
		draft.Stage = draft.ReturnStage
		draft.ReturnStage = ""
		return w.say(draft, "Okay, keeping your work. Where were we - "+w.stagePrompt(draft)), nil

	case StageDone:
		return w.say(draft, "This session is finished. Type 'start over' to begin a new SOP."), nil
	}

	return w.say(draft, "Something went sideways - type 'help' for commands."), nil
}

// finalize bulk-creates the SOP and its steps through the stores: one SOP
// create, then one sequential step create per drafted step. There is no
// rollback; a failure partway through leaves the SOP with the steps
// created so far and reports the failure.
func (w *Wizard) finalize(ctx context.Context, draft *Draft) (Reply, error) {
	if w.Creator == nil {
		return w.say(draft, "Saving is not available right now."), fmt.Errorf("wizard has no creator")
	}
	if draft.Title == "" {
		return w.say(draft, "The SOP still needs a title. What should it be called?"), nil
	}

	sopID, err := w.Creator.CreateSOP(ctx, draft)
	if err != nil {
		return w.say(draft, "Creating the SOP failed: "+err.Error()+". Type 'yes' to try again."), err
	}

	for i, step := range draft.Steps {
		if i > 0 && w.StepDelay > 0 {
			time.Sleep(w.StepDelay)
		}
		if err := w.Creator.AddStep(ctx, sopID, i+1, step); err != nil {
			msg := fmt.Sprintf("The SOP was created but saving step %d of %d failed: %v. "+
				"The earlier steps were saved; you can add the rest in the editor.",
				i+1, len(draft.Steps), err)
			return w.say(draft, msg), err
		}
	}

	draft.Stage = StageDone
	return Reply{
		Text:      fmt.Sprintf("Done! %q was created with %d steps.", draft.Title, len(draft.Steps)),
		Finalized: true,
		Cleared:   true,
		SopID:     sopID,
	}, nil
}

func (w *Wizard) summary(draft *Draft) string {
	var b strings.Builder
	b.WriteString("Here's your draft so far:\n")
	fmt.Fprintf(&b, "Title: %s\n", orDash(draft.Title))
	fmt.Fprintf(&b, "Description: %s\n", orDash(draft.Description))
	fmt.Fprintf(&b, "Category: %s\n", orDash(draft.Category))
	fmt.Fprintf(&b, "Steps: %d\n", len(draft.Steps))
	for i, s := range draft.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Instructions)
	}
	if len(draft.Equipment) > 0 {
		fmt.Fprintf(&b, "Equipment: %s\n", strings.Join(draft.Equipment, ", "))
	}
	if draft.FiveS != (FiveS{}) {
		b.WriteString("5S notes: included\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (w *Wizard) export(draft *Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDash(draft.Title))
	if draft.Description != "" {
		b.WriteString(draft.Description + "\n\n")
	}
	for i, s := range draft.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Instructions)
	}
	return strings.TrimRight(b.String(), "\n")
}

// stagePrompt re-asks the question for the draft's current stage, used
// when resuming after a declined cancel.
func (w *Wizard) stagePrompt(draft *Draft) string {
	switch draft.Stage {
	case StageTitle:
		return "what is the title of your SOP?"
	case StageDescription:
		return "describe what this procedure is for."
	case StageCategory:
		return "what category does this SOP belong to?"
	case StageSteps:
		return fmt.Sprintf("describe step %d, or type 'done'.", len(draft.Steps)+1)
	case StageEquipment:
		return "any more equipment? Type 'done' when finished."
	case StageFiveSPrompt:
		return "would you like to add 5S notes? (yes/no)"
	case StageFinalize:
		return "type 'yes' to create the SOP."
	}
	return "type 'help' for commands."
}

// record appends the user's message to the transcript.
func (w *Wizard) record(draft *Draft, text string) {
	draft.Messages = append(draft.Messages, Message{Role: "user", Text: text, At: time.Now().UTC()})
}

// say appends the assistant reply to the transcript and returns it.
func (w *Wizard) say(draft *Draft, text string) Reply {
	draft.Messages = append(draft.Messages, Message{Role: "assistant", Text: text, At: time.Now().UTC()})
	return Reply{Text: text}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
