package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

type fakeSession struct {
	sarama.ConsumerGroupSession

	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Context() context.Context { return context.Background() }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim

	msgs chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func TestConsumeClaim(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	handler := &saramaHandler{
		handler: func(_ context.Context, msg *sarama.ConsumerMessage) error {
			if string(msg.Value) == "fail" {
				return errors.New("handler failed")
			}
			return nil
		},
		logger: zap.NewNop(),
	}

	session := &fakeSession{}
	claim := &fakeClaim{msgs: make(chan *sarama.ConsumerMessage, 2)}
	claim.msgs <- &sarama.ConsumerMessage{Topic: "payment_events", Offset: 1, Value: []byte("ok")}
	claim.msgs <- &sarama.ConsumerMessage{Topic: "payment_events", Offset: 2, Value: []byte("fail")}
	close(claim.msgs)

	require.NoError(t, handler.ConsumeClaim(session, claim))

	// Only the successfully handled message is marked; the failed one stays
	// unacknowledged for redelivery.
	require.Len(t, session.marked, 1)
	assert.Equal(t, int64(1), session.marked[0].Offset)

	// Every message gets a span and every span is ended, success or not.
	ended := recorder.Ended()
	require.Len(t, ended, 2)
	for _, span := range ended {
		assert.Equal(t, "kafka_process", span.Name())
	}
}
