package maintenance

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/5w1tchy/storyshelf/internal/store/catalog"
)

type countingSyncer struct{ n atomic.Int32 }

func (c *countingSyncer) Sync(context.Context) (catalog.Document, error) {
	c.n.Add(1)
	return catalog.Document{}, nil
}

func TestStartCatalogWarmup_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &countingSyncer{}

	done := StartCatalogWarmup(ctx, s, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return s.n.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmup did not stop after cancel")
	}
}

func TestStartCatalogWarmup_Disabled(t *testing.T) {
	s := &countingSyncer{}
	done := StartCatalogWarmup(context.Background(), s, 0)

	<-done
	assert.Equal(t, int32(0), s.n.Load())
}
