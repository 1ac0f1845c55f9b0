package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftSchemaVersion is bumped whenever the draft shape changes. Saved
// drafts with a different version are discarded on load instead of being
// misread into the new shape.
const DraftSchemaVersion = 1

// Stage identifies where the conversation is.
type Stage string

const (
	StageTitle            Stage = "title"
	StageDescription      Stage = "description"
	StageCategory         Stage = "category"
	StageSteps            Stage = "steps"
	StageEquipment        Stage = "equipment"
	StageFiveSPrompt      Stage = "5s-prompt"
	StageFiveSSort        Stage = "5s-sort"
	StageFiveSSet         Stage = "5s-set"
	StageFiveSShine       Stage = "5s-shine"
	StageFiveSStandardize Stage = "5s-standardize"
	StageFiveSSustain     Stage = "5s-sustain"
	StageFinalize         Stage = "finalize"
	StageConfirmCancel    Stage = "confirm-cancel"
	StageDone             Stage = "done"
)

// Message is one transcript entry.
type Message struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// StepDraft is one collected step.
type StepDraft struct {
	Title        string `json:"title,omitempty"`
	Instructions string `json:"instructions"`
}

// FiveS holds the optional 5S methodology fields.
type FiveS struct {
	Sort        string `json:"sort,omitempty"`
	SetInOrder  string `json:"set_in_order,omitempty"`
	Shine       string `json:"shine,omitempty"`
	Standardize string `json:"standardize,omitempty"`
	Sustain     string `json:"sustain,omitempty"`
}

// Draft is the wizard's working state, autosaved after every message so a
// crashed or closed session can resume.
type Draft struct {
	SchemaVersion int         `json:"schema_version"`
	Title         string      `json:"title,omitempty"`
	Description   string      `json:"description,omitempty"`
	Category      string      `json:"category,omitempty"`
	Steps         []StepDraft `json:"steps,omitempty"`
	Equipment     []string    `json:"equipment,omitempty"`
	FiveS         FiveS       `json:"five_s,omitempty"`
	Stage         Stage       `json:"stage"`
	ReturnStage   Stage       `json:"return_stage,omitempty"`
	Messages      []Message   `json:"messages,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewDraft returns an empty draft at the title stage.
func NewDraft() *Draft {
	return &Draft{
		SchemaVersion: DraftSchemaVersion,
		Stage:         StageTitle,
	}
}

// HasContent reports whether the draft holds unsaved work worth guarding
// with a cancel confirmation.
func (d *Draft) HasContent() bool {
	return d.Title != "" || d.Description != "" || d.Category != "" ||
		len(d.Steps) > 0 || len(d.Equipment) > 0 ||
		d.FiveS != (FiveS{})
}

// Reset clears everything: SOP fields, steps, equipment, 5S fields and
// the transcript. Stage returns to title.
func (d *Draft) Reset() {
	*d = Draft{
		SchemaVersion: DraftSchemaVersion,
		Stage:         StageTitle,
	}
}

// DraftStore persists one draft per user.
type DraftStore interface {
	Save(ctx context.Context, userID string, draft *Draft) error
	Load(ctx context.Context, userID string) (*Draft, error)
	Clear(ctx context.Context, userID string) error
}

// RedisDraftStore keeps drafts in redis under a per-user key with a TTL.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisDraftStore connects to redis and verifies the connection.
func NewRedisDraftStore(redisURL string, ttl time.Duration) (*RedisDraftStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisDraftStore{client: client, ttl: ttl, prefix: "wizard:draft:"}, nil
}

// NewRedisDraftStoreWithClient builds a store from an existing client.
func NewRedisDraftStoreWithClient(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl, prefix: "wizard:draft:"}
}

func (s *RedisDraftStore) key(userID string) string {
	return s.prefix + userID
}

// Save stores the draft, refreshing the TTL.
func (s *RedisDraftStore) Save(ctx context.Context, userID string, draft *Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the saved draft, or nil when there is none. Drafts written
// by a different schema version are dropped rather than misread.
func (s *RedisDraftStore) Load(ctx context.Context, userID string) (*Draft, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if draft.SchemaVersion != DraftSchemaVersion {
		log.Printf("Discarding draft for user %s: schema version %d (current %d)",
			userID, draft.SchemaVersion, DraftSchemaVersion)
		_ = s.Clear(ctx, userID)
		return nil, nil
	}
	return &draft, nil
}

// Clear deletes the saved draft.
func (s *RedisDraftStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
