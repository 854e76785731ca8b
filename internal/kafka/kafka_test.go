package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

type fakeReader struct {
	msgs []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	writer := &MockWriter{}
	p := &Producer{writer: writer, log: zap.NewNop()}
	ctx := context.Background()

	event := ReservationEvent{ID: "e1", Type: "reservation_booked", UserID: 7, FlightIDs: []int64{1, 2}}
	writer.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || msgs[0].Topic != "reservations" || string(msgs[0].Key) != "7" {
			return false
		}
		var got ReservationEvent
		return json.Unmarshal(msgs[0].Value, &got) == nil && got.ID == "e1" && len(got.FlightIDs) == 2
	})).Return(nil).Once()

	require.NoError(t, p.Publish(ctx, "reservations", "7", event))
	writer.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	writer := &MockWriter{}
	p := &Producer{writer: writer, log: zap.NewNop()}
	ctx := context.Background()

	writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker down")).Once()
	assert.Error(t, p.Publish(ctx, "reservations", "7", ReservationEvent{}))

	assert.Error(t, p.Publish(ctx, "reservations", "7", func() {}))
}

func TestConsumer_Consume(t *testing.T) {
	good, _ := json.Marshal(ReservationEvent{ID: "e1", Type: "reservation_cancelled", UserID: 3})
	reader := &fakeReader{msgs: []kafka.Message{{Value: []byte("{oops")}, {Value: good}}}
	c := &Consumer{reader: reader, log: zap.NewNop()}

	var seen []ReservationEvent
	err := c.Consume(context.Background(), func(_ context.Context, e ReservationEvent) error {
		seen = append(seen, e)
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, seen, 1)
	assert.Equal(t, "e1", seen[0].ID)
}

func TestConsumer_HandlerErrorStops(t *testing.T) {
	good, _ := json.Marshal(ReservationEvent{ID: "e1"})
	c := &Consumer{reader: &fakeReader{msgs: []kafka.Message{{Value: good}, {Value: good}}}, log: zap.NewNop()}

	calls := 0
	err := c.Consume(context.Background(), func(context.Context, ReservationEvent) error {
		calls++
		return errors.New("smtp down")
	})

	assert.EqualError(t, err, "smtp down")
	assert.Equal(t, 1, calls)
}

func TestConsumer_CloseNil(t *testing.T) {
	var c *Consumer
	assert.NoError(t, c.Close())
}
