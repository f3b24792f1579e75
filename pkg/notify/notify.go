// Package notify renders short on-screen banners for a plugin.
//
// Callbacks queue text with Post or Error; nothing is rendered at that
// point, so queueing is cheap enough for any callback. Attach chains a drain
// onto the frame trampoline: after each presented frame the queue renders
// every pending banner into an RGBA image and hands it to the host-owned
// Sink, which decides where and how long to overlay it.
package notify

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-wups/wupf/pkg/hooks"
)

// Level selects a banner's background treatment.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// DefaultDuration is how long a banner stays up when the poster does not
// say otherwise.
const DefaultDuration = 2 * time.Second

// maxQueued bounds the pending queue; past it the oldest banner is dropped.
const maxQueued = 32

const (
	padX = 8
	padY = 6
)

// Notification is one queued banner.
type Notification struct {
	Text     string
	Level    Level
	Duration time.Duration
}

// Sink receives rendered banners. The host side of the integration owns the
// overlay surface and implements this.
type Sink interface {
	Present(img *image.RGBA, d time.Duration)
}

// Queue collects banners until the next frame drain.
type Queue struct {
	mu      sync.Mutex
	pending []Notification
	sink    Sink
	face    font.Face
}

// NewQueue returns an empty queue rendering with the bundled bitmap face.
func NewQueue() *Queue {
	return &Queue{face: basicfont.Face7x13}
}

// SetSink installs the surface banners are presented on.
func (q *Queue) SetSink(s Sink) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sink = s
}

// Post queues an informational banner with the default duration.
func (q *Queue) Post(text string) {
	q.Push(Notification{Text: text, Level: LevelInfo, Duration: DefaultDuration})
}

// Postf queues a formatted informational banner.
func (q *Queue) Postf(format string, args ...any) {
	q.Post(fmt.Sprintf(format, args...))
}

// Error queues an error banner with the default duration.
func (q *Queue) Error(text string) {
	q.Push(Notification{Text: text, Level: LevelError, Duration: DefaultDuration})
}

// Push queues a fully specified banner. A zero duration gets the default;
// when the queue is full the oldest banner gives way.
func (q *Queue) Push(n Notification) {
	if n.Duration <= 0 {
		n.Duration = DefaultDuration
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= maxQueued {
		q.pending = q.pending[1:]
	}
	q.pending = append(q.pending, n)
}

// Pending returns the number of queued banners.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Attach installs the sink and chains the drain after the host's buffer
// swap on t.
func (q *Queue) Attach(t *hooks.Table, s Sink) {
	if t == nil {
		panic("notify: Attach with nil hook table")
	}
	if s == nil {
		panic("notify: Attach with nil sink")
	}
	q.SetSink(s)
	t.ChainFrame(q.Drain)
}

// Drain renders every pending banner in posting order and presents each on
// the sink. Without a sink the queue is simply cleared.
func (q *Queue) Drain() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	sink := q.sink
	q.mu.Unlock()

	if sink == nil || len(pending) == 0 {
		return
	}
	for _, n := range pending {
		sink.Present(q.render(n), n.Duration)
	}
}

// render draws one banner: a filled background with the text on top.
func (q *Queue) render(n Notification) *image.RGBA {
	width := font.MeasureString(q.face, n.Text).Ceil()
	height := q.face.Metrics().Height.Ceil()

	img := image.NewRGBA(image.Rect(0, 0, width+2*padX, height+2*padY))
	draw.Draw(img, img.Bounds(), image.NewUniform(background(n.Level)), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: q.face,
		Dot:  fixed.P(padX, padY+q.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(n.Text)
	return img
}

func background(l Level) color.RGBA {
	if l == LevelError {
		return color.RGBA{R: 0x78, G: 0x18, B: 0x18, A: 0xE6}
	}
	return color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xE6}
}

var defaultQueue = NewQueue()

// Post queues an informational banner on the default queue.
func Post(text string) {
	defaultQueue.Post(text)
}

// Postf queues a formatted informational banner on the default queue.
func Postf(format string, args ...any) {
	defaultQueue.Postf(format, args...)
}

// Error queues an error banner on the default queue.
func Error(text string) {
	defaultQueue.Error(text)
}

// Attach wires the default queue into a hook table.
func Attach(t *hooks.Table, s Sink) {
	defaultQueue.Attach(t, s)
}
