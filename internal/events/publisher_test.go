package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatermillPublisher_PublishesEnvelopeAndMetadata(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "exam-events")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubSub, "exam-events", testLogger())

	event := NewExamPublishedEvent(7, "Algebra", 3, 45, 20)
	require.NoError(t, publisher.Publish(context.Background(), event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventExamPublished), msg.Metadata.Get("event_type"))
		assert.Equal(t, "exam-service", msg.Metadata.Get("source"))
		assert.Equal(t, "1.0", msg.Metadata.Get("version"))

		var decoded struct {
			ID   string             `json:"id"`
			Type EventType          `json:"type"`
			Data ExamPublishedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, event.ID, decoded.ID)
		assert.Equal(t, EventExamPublished, decoded.Type)
		assert.Equal(t, uint(7), decoded.Data.ExamID)
		assert.Equal(t, "Algebra", decoded.Data.ExamTitle)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, NewMessageSentEvent(1, 2, nil, "hello")))
	require.NoError(t, publisher.Publish(ctx, NewSWOTSubmittedEvent(3, 2, 4)))

	assert.Len(t, publisher.GetPublishedEvents(), 2)
	assert.Len(t, publisher.EventsOfType(EventMessageSent), 1)

	data, ok := publisher.EventsOfType(EventSWOTSubmitted)[0].Data.(SWOTSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, 4, data.AnswerCount)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestGenerateEventID_Unique(t *testing.T) {
	a, b := GenerateEventID(), GenerateEventID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
