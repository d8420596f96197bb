// Package signal publishes committed annotations to the host through
// narrow key/value slots, with rate limiting so rapid gestures cannot
// flood the host's update pipeline.
package signal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/balamernstackdev/latest-paint-visualizer/pkg/geometry"
)

// Kind names a host-visible signal slot. Only one slot is ever live at a
// time.
type Kind string

const (
	KindTap     Kind = "tap"
	KindBox     Kind = "box"
	KindPolygon Kind = "polygon"
	KindPan     Kind = "pan_update"
	KindZoom    Kind = "zoom_update"
)

// Kinds lists every slot, used for mutual exclusion sweeps.
var Kinds = []Kind{KindTap, KindBox, KindPolygon, KindPan, KindZoom}

func coord(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

// EncodeTap serializes a tap as "x,y,nonce".
func EncodeTap(p geometry.Point2D, nonce int64) string {
	return fmt.Sprintf("%s,%s,%d", coord(p.X), coord(p.Y), nonce)
}

// EncodeBoxes serializes rectangles as a pipe-delimited corner list,
// "x1,y1,x2,y2|x1,y1,x2,y2,nonce".
func EncodeBoxes(boxes []geometry.Rect, nonce int64) string {
	parts := make([]string, len(boxes))
	for i, b := range boxes {
		br := b.BottomRight()
		parts[i] = fmt.Sprintf("%s,%s,%s,%s", coord(b.X), coord(b.Y), coord(br.X), coord(br.Y))
	}
	return fmt.Sprintf("%s,%d", strings.Join(parts, "|"), nonce)
}

// EncodePolygon serializes vertices as "x1,y1;x2,y2;...,nonce".
func EncodePolygon(vertices []geometry.Point2D, nonce int64) string {
	parts := make([]string, len(vertices))
	for i, v := range vertices {
		parts[i] = fmt.Sprintf("%s,%s", coord(v.X), coord(v.Y))
	}
	return fmt.Sprintf("%s,%d", strings.Join(parts, ";"), nonce)
}

// EncodePan serializes a normalized pan as "fx,fy,nonce".
func EncodePan(fx, fy float64, nonce int64) string {
	return fmt.Sprintf("%.4f,%.4f,%d", fx, fy, nonce)
}

// EncodeZoom serializes the zoom level. The zoom slot carries no nonce;
// the host treats it as an absolute value.
func EncodeZoom(z float64) string {
	return strconv.FormatFloat(z, 'f', 4, 64)
}

// NonceSource issues monotonically increasing nonces based on the wall
// clock in milliseconds. Two commits in the same millisecond still get
// distinct nonces.
type NonceSource struct {
	now  func() time.Time
	last int64
}

// NewNonceSource creates a source; pass time.Now outside tests.
func NewNonceSource(now func() time.Time) *NonceSource {
	if now == nil {
		now = time.Now
	}
	return &NonceSource{now: now}
}

// Next returns the next nonce.
func (n *NonceSource) Next() int64 {
	v := n.now().UnixMilli()
	if v <= n.last {
		v = n.last + 1
	}
	n.last = v
	return v
}
