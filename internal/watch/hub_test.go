package watch

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHub_NotifyCoalesces(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	user := primitive.NewObjectID()

	ch := h.Subscribe(ctx, user)
	h.Notify(user)
	h.Notify(user)
	h.Notify(user)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should coalesce")
	default:
	}
}

func TestHub_OnlyNotifiesOwner(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	aliceCh := h.Subscribe(ctx, alice)
	bobCh := h.Subscribe(ctx, bob)
	h.Notify(alice)

	select {
	case <-aliceCh:
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
	select {
	case <-bobCh:
		t.Fatal("bob should not be notified")
	default:
	}
}

func TestHub_CancelClosesAndUnregisters(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "subs"})
	h := NewHub(gauge)
	user := primitive.NewObjectID()
	ctx, cancel := context.WithCancel(context.Background())

	ch := h.Subscribe(ctx, user)
	assert.Equal(t, 1, h.Subscribers(user))
	assert.Equal(t, 1.0, testutil.ToFloat64(gauge))

	cancel()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
	assert.Equal(t, 0, h.Subscribers(user))
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge))

	// notifying after unsubscribe is a no-op
	h.Notify(user)
}
