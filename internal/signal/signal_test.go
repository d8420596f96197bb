package signal_test

import (
	"sync"
	"testing"
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/internal/signal"
	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slotRecorder is an in-memory SlotWriter tracking applied writes.
type slotRecorder struct {
	mu     sync.Mutex
	slots  map[signal.Kind]string
	writes []string
}

func newRecorder() *slotRecorder {
	return &slotRecorder{slots: make(map[signal.Kind]string)}
}

func (r *slotRecorder) SetSlot(kind signal.Kind, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[kind] = value
	r.writes = append(r.writes, string(kind)+"="+value)
}

func (r *slotRecorder) ClearSlot(kind signal.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, kind)
}

func (r *slotRecorder) get(kind signal.Kind) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.slots[kind]
	return v, ok
}

func (r *slotRecorder) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func fastConfig() signal.Config {
	return signal.Config{
		WriteDebounce:   30 * time.Millisecond,
		ProcessDebounce: 200 * time.Millisecond,
		TriggerDelay:    10 * time.Millisecond,
	}
}

func TestEncodeTap(t *testing.T) {
	got := signal.EncodeTap(geometry.NewPoint2D(123.4, 567.6), 1748700000000)
	assert.Equal(t, "123,568,1748700000000", got)
}

func TestEncodeBoxes(t *testing.T) {
	boxes := []geometry.Rect{
		geometry.NewRect(10, 20, 100, 50),
		geometry.NewRect(200, 300, 40, 60),
	}
	got := signal.EncodeBoxes(boxes, 7)
	assert.Equal(t, "10,20,110,70|200,300,240,360,7", got)
}

func TestEncodePolygon(t *testing.T) {
	verts := []geometry.Point2D{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}}
	got := signal.EncodePolygon(verts, 9)
	assert.Equal(t, "0,0;50,0;50,50,9", got)
}

func TestEncodePan(t *testing.T) {
	assert.Equal(t, "0.2500,0.7500,3", signal.EncodePan(0.25, 0.75, 3))
}

func TestNonceMonotonicWithinSameMillisecond(t *testing.T) {
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := signal.NewNonceSource(func() time.Time { return frozen })

	a := src.Next()
	b := src.Next()
	c := src.Next()
	assert.Equal(t, frozen.UnixMilli(), a)
	assert.Equal(t, a+1, b, "same-millisecond collision bumps by one")
	assert.Equal(t, b+1, c)
}

func TestChannel_BurstCoalescesToSecondValue(t *testing.T) {
	rec := newRecorder()
	ch := signal.NewChannel(fastConfig(), rec, nil, nil)

	ch.Publish(signal.KindTap, "1,1,100")
	time.Sleep(10 * time.Millisecond)
	ch.Publish(signal.KindTap, "2,2,101")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.writeCount(), "a burst inside the window applies once")
	v, ok := rec.get(signal.KindTap)
	require.True(t, ok)
	assert.Equal(t, "2,2,101", v, "the newest value wins")
}

func TestChannel_MutualExclusionBetweenSlots(t *testing.T) {
	rec := newRecorder()
	ch := signal.NewChannel(fastConfig(), rec, nil, nil)

	ch.Publish(signal.KindPolygon, "0,0;50,0;50,50,1")
	time.Sleep(60 * time.Millisecond)
	_, ok := rec.get(signal.KindPolygon)
	require.True(t, ok)

	ch.Publish(signal.KindTap, "10,10,2")
	time.Sleep(60 * time.Millisecond)

	_, ok = rec.get(signal.KindPolygon)
	assert.False(t, ok, "writing tap clears the pending polygon slot")
	_, ok = rec.get(signal.KindTap)
	assert.True(t, ok)
}

func TestChannel_ProcessRequestDeferredAndDebounced(t *testing.T) {
	rec := newRecorder()
	var mu sync.Mutex
	requests := 0
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return requests
	}
	ch := signal.NewChannel(fastConfig(), rec, func() {
		mu.Lock()
		requests++
		mu.Unlock()
	}, nil)

	ch.Publish(signal.KindTap, "1,1,1")
	time.Sleep(60 * time.Millisecond)
	ch.Publish(signal.KindTap, "2,2,2")
	time.Sleep(60 * time.Millisecond)
	ch.Publish(signal.KindTap, "3,3,3")
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, count(), "requests inside the debounce window collapse")
	assert.Equal(t, 3, rec.writeCount(), "slot writes spaced past the window all apply")

	// The collapsed requests are not lost: one trailing delivery fires
	// once the debounce window ends, then the channel goes quiet.
	require.Eventually(t, func() bool { return count() == 2 },
		time.Second, 10*time.Millisecond, "the last commit must still be delivered")
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 2, count(), "no extra deliveries after the trailing one")
}

func TestChannel_ClearAllCancelsPendingProcessRequest(t *testing.T) {
	rec := newRecorder()
	var mu sync.Mutex
	requests := 0
	ch := signal.NewChannel(signal.Config{
		WriteDebounce:   20 * time.Millisecond,
		ProcessDebounce: 200 * time.Millisecond,
		TriggerDelay:    100 * time.Millisecond,
	}, rec, func() {
		mu.Lock()
		requests++
		mu.Unlock()
	}, nil)

	ch.Publish(signal.KindTap, "1,1,1")
	// Let the slot write land, then switch tools before the deferred
	// request fires.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, rec.writeCount())
	ch.ClearAll()

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	got := requests
	mu.Unlock()
	assert.Equal(t, 0, got, "the previous tool's signal must not reach the host")
}

func TestChannel_ClearAllDropsStagedWrite(t *testing.T) {
	rec := newRecorder()
	ch := signal.NewChannel(fastConfig(), rec, nil, nil)

	ch.Publish(signal.KindBox, "0,0,50,50,1")
	ch.ClearAll()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 0, rec.writeCount(), "tool switch wipes staged signals")
	_, ok := rec.get(signal.KindBox)
	assert.False(t, ok)
}
