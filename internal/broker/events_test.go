package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestPublishLoginSubmitted(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewEventPublisher(NewProducerWithWriter(writer))

	err := publisher.PublishLoginSubmitted(context.Background(), &models.LoginSubmittedEvent{
		BaseEvent:    models.BaseEvent{EventID: "e-1", EventType: models.EventTypeLoginSubmitted},
		SubmissionID: "s-1",
		Email:        "shopper@example.com",
	})
	require.NoError(t, err)
	require.Len(t, writer.msgs, 1)

	assert.Equal(t, "login-s-1", string(writer.msgs[0].Key))
	var decoded models.LoginSubmittedEvent
	require.NoError(t, json.Unmarshal(writer.msgs[0].Value, &decoded))
	assert.Equal(t, "shopper@example.com", decoded.Email)
	assert.Equal(t, models.EventTypeLoginSubmitted, decoded.EventType)
}

func TestPublishProductChangedKey(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewEventPublisher(NewProducerWithWriter(writer))

	require.NoError(t, publisher.PublishProductChanged(context.Background(), &models.ProductChangedEvent{ProductID: "NO-CAP"}))
	require.NoError(t, publisher.PublishCatalogChanged(context.Background(), &models.CatalogChangedEvent{}))

	require.Len(t, writer.msgs, 2)
	assert.Equal(t, "product-NO-CAP", string(writer.msgs[0].Key))
	assert.Equal(t, "catalog", string(writer.msgs[1].Key))
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("leader not available")
	publisher := NewEventPublisher(NewProducerWithWriter(&recordingWriter{err: boom}))

	err := publisher.PublishCatalogChanged(context.Background(), &models.CatalogChangedEvent{})

	assert.ErrorIs(t, err, boom)
}

func TestHandleMessageDispatch(t *testing.T) {
	handler := NewEventHandler()
	var got string
	handler.OnProductChanged(func(_ context.Context, e *models.ProductChangedEvent) error {
		got = e.ProductID
		return nil
	})

	value, err := json.Marshal(models.ProductChangedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeProductChanged},
		ProductID: "LGH-001",
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandleMessage(context.Background(), kafka.Message{Value: value}))
	assert.Equal(t, "LGH-001", got)
}

func TestHandleMessageWithoutRegisteredHandler(t *testing.T) {
	value, err := json.Marshal(models.CatalogChangedEvent{
		BaseEvent: models.BaseEvent{EventType: models.EventTypeCatalogChanged},
	})
	require.NoError(t, err)

	assert.NoError(t, NewEventHandler().HandleMessage(context.Background(), kafka.Message{Value: value}))
}
