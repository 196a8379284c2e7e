package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

type ShareViewedPayload struct {
	ShareID    uuid.UUID `json:"share_id"`
	DocumentID uuid.UUID `json:"document_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}

// NewShareViewedMessage keys the message by share id so every view of one
// link lands on the same partition.
func NewShareViewedMessage(link *share.Link, at time.Time) (kafka.Message, error) {
	value, err := json.Marshal(ShareViewedPayload{
		ShareID:    link.ID,
		DocumentID: link.DocumentID,
		ViewedAt:   at,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal share viewed event: %w", err)
	}
	return kafka.Message{Key: []byte(link.ID.String()), Value: value}, nil
}

func DecodeShareViewed(msg kafka.Message) (ShareViewedPayload, error) {
	var p ShareViewedPayload
	if err := json.Unmarshal(msg.Value, &p); err != nil {
		return ShareViewedPayload{}, apperror.NewInvalidInput("share viewed event is not valid JSON", err)
	}
	if p.ShareID == uuid.Nil {
		return ShareViewedPayload{}, apperror.NewInvalidInput("share viewed event without share_id", nil)
	}
	return p, nil
}
