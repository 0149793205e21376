package observability

import (
	"context"
	"testing"
	"time"
)

type countingPipelineHooks struct {
	NoopPipelineHooks
	layoutStarts int
}

func (h *countingPipelineHooks) OnLayoutStart(context.Context, string, int) {
	h.layoutStarts++
}

func TestDefaultsAreNoop(t *testing.T) {
	// The default hooks must be callable without any registration.
	ctx := context.Background()
	Pipeline().OnLayoutStart(ctx, "spring electrical", 10)
	Pipeline().OnLayoutComplete(ctx, "spring electrical", time.Second, nil)
	Cache().OnCacheHit(ctx, "layout")
	HTTP().OnRequest(ctx, "POST", "/v1/layout")
}

func TestSetPipelineHooks(t *testing.T) {
	defer SetPipelineHooks(NoopPipelineHooks{})

	h := &countingPipelineHooks{}
	SetPipelineHooks(h)

	Pipeline().OnLayoutStart(context.Background(), "layered", 5)
	if h.layoutStarts != 1 {
		t.Errorf("layoutStarts = %d, want 1", h.layoutStarts)
	}
}

func TestSetNilKeepsExisting(t *testing.T) {
	defer SetCacheHooks(NoopCacheHooks{})

	SetCacheHooks(nil)
	if Cache() == nil {
		t.Error("Cache() = nil after SetCacheHooks(nil), want previous hooks retained")
	}
}
