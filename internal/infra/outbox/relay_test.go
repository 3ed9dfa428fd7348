//go:build unit

package outbox_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"shop-checkout/internal/infra/memstore"
	"shop-checkout/internal/infra/outbox"
	"shop-checkout/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return p.err
}

func (p *recordingPublisher) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *recordingPublisher) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

var start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, opts outbox.Options, topics ...string) (*outbox.Relay, *recordingPublisher, *clock.MockClock) {
	t.Helper()
	store := memstore.New()
	for _, topic := range topics {
		require.NoError(t, store.Direct().Notifications().CreateJob(context.Background(), "order_event", topic, []byte(`{}`), start))
	}
	pub := &recordingPublisher{}
	clk := clock.NewMockClock(start)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return outbox.NewRelay(store, pub, clk, logger, opts), pub, clk
}

func TestRelay_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("期限到来のジョブを配信し再配信しない", func(t *testing.T) {
		relay, pub, _ := setup(t, outbox.Options{}, "order.created", "order.status_changed")

		sent, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.ElementsMatch(t, []string{"order.created", "order.status_changed"}, pub.topics)

		sent, err = relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		assert.Equal(t, 2, pub.calls())
	})

	t.Run("配信失敗はバックオフ後に再試行", func(t *testing.T) {
		relay, pub, clk := setup(t, outbox.Options{}, "order.created")
		pub.setErr(assert.AnError)

		sent, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)

		clk.Add(time.Second)
		sent, err = relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		assert.Equal(t, 1, pub.calls(), "retry must wait for the backoff")

		pub.setErr(nil)
		clk.Add(time.Second)
		sent, err = relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("試行回数を使い切ったジョブは諦める", func(t *testing.T) {
		relay, pub, clk := setup(t, outbox.Options{MaxAttempts: 1}, "order.created")
		pub.setErr(assert.AnError)

		_, err := relay.RunOnce(ctx)
		require.NoError(t, err)

		clk.Add(time.Hour)
		pub.setErr(nil)
		sent, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		assert.Equal(t, 1, pub.calls())
	})

	t.Run("バッチサイズ単位で取得する", func(t *testing.T) {
		relay, _, _ := setup(t, outbox.Options{BatchSize: 2}, "a", "b", "c")

		sent, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)

		sent, err = relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})
}

func TestRelay_StartStop(t *testing.T) {
	relay, pub, _ := setup(t, outbox.Options{PollInterval: 10 * time.Millisecond}, "order.created")

	relay.Start()
	require.Eventually(t, func() bool { return pub.calls() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, relay.Stop(ctx))
}

func TestRelay_StopWithoutStart(t *testing.T) {
	relay, _, _ := setup(t, outbox.Options{})
	assert.NoError(t, relay.Stop(context.Background()))
}

func TestRelay_ExpiredLease(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Direct().Notifications().CreateJob(ctx, "order_event", "order.created", []byte(`{}`), start))

	// a relay that claimed the job and died before marking it
	claimed, err := store.Direct().Notifications().ClaimDue(ctx, start, start.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	pub := &recordingPublisher{}
	clk := clock.NewMockClock(start.Add(30 * time.Second))
	relay := outbox.NewRelay(store, pub, clk, slog.New(slog.NewTextHandler(io.Discard, nil)), outbox.Options{Lease: time.Minute})

	t.Run("リース期間中は他のリレーに渡さない", func(t *testing.T) {
		sent, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		assert.Equal(t, 0, pub.calls())
	})

	t.Run("リース切れのジョブは再取得して配信する", func(t *testing.T) {
		clk.Add(time.Minute)
		sent, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, []string{"order.created"}, pub.topics)
	})

	t.Run("配信済みのジョブは再取得しない", func(t *testing.T) {
		clk.Add(24 * time.Hour)
		sent, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		assert.Equal(t, 1, pub.calls())
	})
}
