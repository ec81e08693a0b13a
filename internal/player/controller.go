// Package player owns the playback state: the current track, whether
// it is playing, and its position. It drives one of two media engines
// depending on the track's kind.
//
// The controller is a state machine over three states: Idle (no
// current track), loaded-paused, and loaded-playing. Progress events
// from the engines are attributed by comparing their track id against
// the current track at the moment the event is handled, so a stale
// event from a previous track is dropped rather than misattributed.
package player

import (
	"sync"

	"media-player/internal/catalog"
	"media-player/internal/logging"
	"media-player/internal/mediatypes"
	"media-player/internal/metrics"
)

// Catalog is the read view the controller needs for next/previous
// navigation. *catalog.Store satisfies it.
type Catalog interface {
	Entries() []catalog.Entry
	IndexOf(id string) int
	Get(id string) (catalog.Entry, bool)
}

// State is the transient playback state. It is not persisted; after a
// restart the catalog reappears but nothing auto-resumes.
type State struct {
	Track       *catalog.Entry `json:"track"`
	Playing     bool           `json:"playing"`
	CurrentTime float64        `json:"currentTime"`
	Duration    float64        `json:"duration"`
}

// Controller synchronizes playback state across the catalog, the two
// engines, and the transport UI.
type Controller struct {
	catalog Catalog
	audio   Engine
	video   Engine

	mu          sync.Mutex
	track       *catalog.Entry
	playing     bool
	currentTime float64
	duration    float64
}

// New creates an idle controller over the given catalog and engines.
func New(cat Catalog, audio, video Engine) *Controller {
	return &Controller{
		catalog: cat,
		audio:   audio,
		video:   video,
	}
}

// engineFor is the single dispatch point from media kind to engine.
func (c *Controller) engineFor(kind mediatypes.Kind) Engine {
	if kind == mediatypes.KindVideo {
		return c.video
	}
	return c.audio
}

// Play makes entry the current track and starts it on the engine
// matching its kind. The other engine is left untouched.
func (c *Controller) Play(entry catalog.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playLocked(entry)
}

func (c *Controller) playLocked(entry catalog.Entry) {
	e := entry
	c.track = &e
	c.playing = true
	c.currentTime = 0
	c.duration = 0

	engine := c.engineFor(entry.Kind)
	engine.SetSource(entry.PlaybackURL)
	engine.Play()

	metrics.PlaybackStarts.WithLabelValues(string(entry.Kind)).Inc()
	logging.Debug("player: playing %s (%s)", entry.Name, entry.Kind)
}

// PlayID starts the catalog entry with the given id. It reports
// whether the id was found.
func (c *Controller) PlayID(id string) bool {
	entry, ok := c.catalog.Get(id)
	if !ok {
		return false
	}
	c.Play(entry)
	return true
}

// Pause pauses the active engine. With no current track this is a
// no-op rather than a pause attempt against a default engine.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}
	c.playing = false
	c.engineFor(c.track.Kind).Pause()
}

// Toggle pauses when playing and resumes the current track when
// paused. Idle is a no-op.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}
	if c.playing {
		c.playing = false
		c.engineFor(c.track.Kind).Pause()
		return
	}
	c.playing = true
	c.engineFor(c.track.Kind).Play()
}

// Next advances to the following catalog entry, wrapping at the end.
// Navigation always resumes playing, even from paused.
func (c *Controller) Next() {
	c.step(+1)
}

// Previous moves to the preceding catalog entry, wrapping at the
// start.
func (c *Controller) Previous() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}

	entries := c.catalog.Entries()
	n := len(entries)
	if n == 0 {
		return
	}

	i := c.catalog.IndexOf(c.track.ID)
	if i < 0 {
		// Current track vanished from the catalog out from under us.
		return
	}

	c.playLocked(entries[(i+delta+n)%n])
}

// SeekFraction seeks the active engine to fraction f of the track
// duration. f is clamped to [0, 1]; pointer positions outside the
// seek control therefore pin to the track edges. The reported time is
// updated optimistically, ahead of the engine's own progress event.
func (c *Controller) SeekFraction(f float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}

	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}

	target := f * c.duration
	c.engineFor(c.track.Kind).SetCurrentTime(target)
	c.currentTime = target
}

// HandleProgress mirrors a timeupdate/duration event from the engine
// playing trackID. Events for anything other than the current track
// are stale and dropped.
func (c *Controller) HandleProgress(trackID string, currentTime, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil || c.track.ID != trackID {
		return
	}
	c.currentTime = currentTime
	c.duration = duration
}

// HandleEnded advances to the next track when the current one
// finishes. Stale end events are dropped like progress events.
func (c *Controller) HandleEnded(trackID string) {
	c.mu.Lock()
	if c.track == nil || c.track.ID != trackID {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.Next()
}

// Eject is called when an entry is deleted. Deleting the current
// track forces the controller to Idle and stops both engines,
// clearing their sources regardless of which one was active.
func (c *Controller) Eject(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil || c.track.ID != id {
		return
	}

	c.track = nil
	c.playing = false
	c.currentTime = 0
	c.duration = 0
	c.audio.Stop()
	c.video.Stop()
}

// State returns a copy of the playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Playing:     c.playing,
		CurrentTime: c.currentTime,
		Duration:    c.duration,
	}
	if c.track != nil {
		t := *c.track
		s.Track = &t
	}
	return s
}
