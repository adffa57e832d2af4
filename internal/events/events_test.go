package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed int
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed++
	return nil
}

func TestKafkaPublish(t *testing.T) {
	t.Parallel()
	fw := &fakeWriter{}
	k := &Kafka{w: fw, topic: "gravure.activity"}

	e := New(OrderStatusChanged, domain.Ref{Kind: domain.ResourceOrder, ID: 42}, "CMD-42", 1)
	e.Before, e.After = string(domain.OrderPaid), string(domain.OrderProcessing)
	require.NoError(t, k.Publish(context.Background(), e))

	require.Len(t, fw.msgs, 1)
	m := fw.msgs[0]
	assert.Equal(t, "order:42", string(m.Key))
	assert.Equal(t, OrderStatusChanged, string(m.Headers[0].Value))

	var got map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &got))
	assert.Equal(t, `App\Models\Order`, got["resource"])
	assert.Equal(t, "paid", got["before"])
	assert.Equal(t, "processing", got["after"])
}

func TestKafkaErrorsAndClose(t *testing.T) {
	t.Parallel()
	fw := &fakeWriter{err: errors.New("broker down")}
	k := &Kafka{w: fw, topic: "t"}

	err := k.Publish(context.Background(), New(QuotePriced, domain.Ref{Kind: domain.ResourceQuote, ID: 1}, "", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")

	require.NoError(t, k.Close())
	require.NoError(t, k.Close())
	assert.Equal(t, 1, fw.closed)
	assert.ErrorIs(t, k.Publish(context.Background(), Event{}), ErrPublisherClosed)
}

func TestRecorder(t *testing.T) {
	t.Parallel()
	var p Publisher = &Recorder{}
	require.NoError(t, p.Publish(context.Background(), Event{Type: QuoteRejected}))
	assert.Len(t, p.(*Recorder).Events(), 1)
}
