package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestRecordView_PublishesKeyedEvent(t *testing.T) {
	w := &recordingWriter{}
	c := &KafkaProducerClient{ViewEventsWriter: w, logger: logger.NewNop()}
	link := &share.Link{ID: uuid.New(), DocumentID: uuid.New()}

	require.NoError(t, c.RecordView(context.Background(), link))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, link.ID.String(), string(w.msgs[0].Key))

	p, err := DecodeShareViewed(w.msgs[0])
	require.NoError(t, err)
	assert.Equal(t, link.ID, p.ShareID)
	assert.Equal(t, link.DocumentID, p.DocumentID)
	assert.WithinDuration(t, time.Now(), p.ViewedAt, time.Minute)
}

func TestRecordView_WriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	c := &KafkaProducerClient{ViewEventsWriter: w, logger: logger.NewNop()}

	err := c.RecordView(context.Background(), &share.Link{ID: uuid.New()})
	assert.ErrorContains(t, err, TopicShareViewed)
}

func TestDecodeShareViewed_Rejects(t *testing.T) {
	_, err := DecodeShareViewed(kafka.Message{Value: []byte("not json")})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = DecodeShareViewed(kafka.Message{Value: []byte(`{"document_id":"` + uuid.NewString() + `"}`)})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestNewKafkaProducerClient_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNop())
	assert.Error(t, err)
}
