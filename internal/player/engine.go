package player

import "sync"

// Engine is one underlying media engine, audio or video. The
// controller drives exactly one engine per current track and treats
// it as a black box.
type Engine interface {
	SetSource(url string)
	Play()
	Pause()
	// Stop pauses and clears the source.
	Stop()
	SetCurrentTime(seconds float64)
}

// EngineState is the externally visible state of a MirrorEngine.
type EngineState struct {
	Source  string `json:"source"`
	Playing bool   `json:"playing"`

	// SeekTo carries the most recent seek target; SeekSeq increments
	// with every seek so the UI can tell a new command from the last
	// one it already applied.
	SeekTo  float64 `json:"seekTo"`
	SeekSeq uint64  `json:"seekSeq"`
}

// MirrorEngine implements Engine as a command mirror. The browser UI
// polls its state and applies it to the corresponding HTML media
// element; tests read it directly.
type MirrorEngine struct {
	mu    sync.Mutex
	state EngineState
}

// NewMirrorEngine returns an idle engine with no source.
func NewMirrorEngine() *MirrorEngine {
	return &MirrorEngine{}
}

// SetSource points the engine at a new playback URL.
func (e *MirrorEngine) SetSource(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Source = url
}

// Play marks the engine as playing.
func (e *MirrorEngine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Playing = true
}

// Pause marks the engine as paused.
func (e *MirrorEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Playing = false
}

// Stop pauses the engine and clears its source.
func (e *MirrorEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Playing = false
	e.state.Source = ""
}

// SetCurrentTime records a seek command.
func (e *MirrorEngine) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SeekTo = seconds
	e.state.SeekSeq++
}

// State returns a copy of the engine state.
func (e *MirrorEngine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
