package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRecord is one row of the postgres event outbox.
type EventRecord struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Kind       string          `gorm:"size:64;index" json:"kind"`
	Actor      uuid.UUID       `gorm:"type:uuid;index" json:"actor"`
	Subject    *uuid.UUID      `gorm:"type:uuid;index" json:"subject,omitempty"`
	Block      uint64          `json:"block"`
	Payload    json.RawMessage `gorm:"type:jsonb" json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (EventRecord) TableName() string {
	return "event_records"
}

type OutboxSink struct {
	db *gorm.DB
}

func NewOutboxSink(db *gorm.DB) (*OutboxSink, error) {
	if err := db.AutoMigrate(&EventRecord{}); err != nil {
		return nil, err
	}
	return &OutboxSink{db: db}, nil
}

func (s *OutboxSink) Name() string { return "outbox" }

func (s *OutboxSink) Deliver(ctx context.Context, events []Event) error {
	records, err := toRecords(events)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&records).Error
}

// Recent lists the newest outbox rows where account is the actor or the
// subject.
func (s *OutboxSink) Recent(ctx context.Context, account uuid.UUID, limit int) ([]EventRecord, error) {
	var records []EventRecord
	err := s.db.WithContext(ctx).
		Where("actor = ? OR subject = ?", account, account).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func toRecords(events []Event) ([]EventRecord, error) {
	records := make([]EventRecord, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		records = append(records, EventRecord{
			Kind:       string(e.Kind),
			Actor:      e.Actor,
			Subject:    e.Subject,
			Block:      uint64(e.Block),
			Payload:    payload,
			OccurredAt: e.Time,
		})
	}
	return records, nil
}
