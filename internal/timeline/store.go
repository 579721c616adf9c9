package timeline

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Editing defaults. Placement lengths are store-level constants: the
// timeline never asks an asset how long it really is.
const (
	DefaultHistoryDepth = 50
	DefaultMediaSeconds = 5.0
	DefaultTextSeconds  = 3.0

	DefaultVolume       = 100.0
	DefaultPlaybackRate = 1.0

	DefaultZoom = 1.0
	MinZoom     = 0.25
	MaxZoom     = 4.0
	zoomStep    = 1.2
)

// Default styling for newly added text clips.
const (
	defaultText              = "New text"
	defaultFontFamily        = "Arial"
	defaultFontSize          = 48.0
	defaultFontWeight        = "normal"
	defaultTextColor         = "#ffffff"
	defaultTextBackground    = "transparent"
	defaultAnimation         = "none"
	defaultAnimationDuration = 0.5
)

// PlaybackState holds the transport parameters of the editor. Zoom is a
// presentation-only view scale; none of these fields participate in history.
type PlaybackState struct {
	CurrentTime  float64  `json:"current_time"`
	IsPlaying    bool     `json:"is_playing"`
	IsMuted      bool     `json:"is_muted"`
	Volume       float64  `json:"volume"`
	PlaybackRate float64  `json:"playback_rate"`
	InPoint      *float64 `json:"in_point,omitempty"`
	OutPoint     *float64 `json:"out_point,omitempty"`
	Zoom         float64  `json:"zoom"`
}

func (p PlaybackState) clone() PlaybackState {
	out := p
	if p.InPoint != nil {
		v := *p.InPoint
		out.InPoint = &v
	}
	if p.OutPoint != nil {
		v := *p.OutPoint
		out.OutPoint = &v
	}
	return out
}

// ProjectSnapshot is the consistent view handed to exporters and the API.
// It is a value copy; mutating it never reaches the store.
type ProjectSnapshot struct {
	Clips     []Clip        `json:"-"`
	Selection []string      `json:"selection"`
	Playback  PlaybackState `json:"playback"`
	Duration  float64       `json:"duration"`
}

// Config holds the store's construction parameters. Zero values fall back
// to the package defaults.
type Config struct {
	HistoryDepth int
	MediaSeconds float64
	TextSeconds  float64
	NewID        func() string
	Logger       *slog.Logger
}

type subscriber struct {
	id int
	fn func()
}

// Store is the mutable state container behind the editor. All mutations go
// through its methods, are serialized by an internal mutex, and notify
// subscribers after they apply. Operations that would violate an invariant
// are silent no-ops reporting false; hosts disable controls up front using
// the CanUndo/CanRedo/HasSelection/HasClipboard predicates.
type Store struct {
	mu           sync.Mutex
	clips        []Clip
	selection    map[string]struct{}
	clipboard    []Clip
	history      *History
	playback     PlaybackState
	mediaSeconds float64
	textSeconds  float64
	newID        func() string
	logger       *slog.Logger

	subs      []subscriber
	nextSubID int
}

// NewStore creates an empty store.
func NewStore(cfg Config) *Store {
	if cfg.MediaSeconds <= 0 {
		cfg.MediaSeconds = DefaultMediaSeconds
	}
	if cfg.TextSeconds <= 0 {
		cfg.TextSeconds = DefaultTextSeconds
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		selection:    make(map[string]struct{}),
		history:      NewHistory(cfg.HistoryDepth),
		playback:     initialPlayback(),
		mediaSeconds: cfg.MediaSeconds,
		textSeconds:  cfg.TextSeconds,
		newID:        cfg.NewID,
		logger:       cfg.Logger,
	}
}

func initialPlayback() PlaybackState {
	return PlaybackState{
		Volume:       DefaultVolume,
		PlaybackRate: DefaultPlaybackRate,
		Zoom:         DefaultZoom,
	}
}

// Reset returns the store to its initial empty state, dropping clips,
// selection, clipboard, and history.
func (s *Store) Reset() {
	s.mu.Lock()
	s.clips = nil
	s.selection = make(map[string]struct{})
	s.clipboard = nil
	s.history = NewHistory(s.history.depth)
	s.playback = initialPlayback()
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to run after every applied mutation. The returned
// function removes the registration. Subscribers run outside the store lock
// and may call back into the store.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.subs))
	for i, sub := range s.subs {
		fns[i] = sub.fn
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// snapshotLocked deep-copies the editable state. Clip values carry no
// references, so copying the slice detaches the snapshot completely.
func (s *Store) snapshotLocked() HistorySnapshot {
	return HistorySnapshot{
		Clips:     append([]Clip(nil), s.clips...),
		Selection: s.selectedIDsLocked(),
	}
}

func (s *Store) restoreLocked(snap HistorySnapshot) {
	s.clips = append([]Clip(nil), snap.Clips...)
	s.selection = make(map[string]struct{}, len(snap.Selection))
	for _, id := range snap.Selection {
		s.selection[id] = struct{}{}
	}
}

// recordLocked pushes the pre-mutation snapshot. Callers must have already
// validated that the mutation will apply.
func (s *Store) recordLocked() {
	s.history.Record(s.snapshotLocked())
}

func (s *Store) indexLocked(id string) int {
	for i, c := range s.clips {
		if c.ClipID() == id {
			return i
		}
	}
	return -1
}

func (s *Store) durationLocked() float64 {
	var d float64
	for _, c := range s.clips {
		if _, end := c.Placement(); end > d {
			d = end
		}
	}
	return d
}

func (s *Store) selectedIDsLocked() []string {
	ids := make([]string, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddMedia inserts a new media clip anchored at the playhead with the
// default placement length and returns its id. The clip type is inferred
// from the descriptor's content type.
func (s *Store) AddMedia(ref AssetRef) string {
	s.mu.Lock()
	s.recordLocked()
	at := s.playback.CurrentTime
	clip := MediaClip{
		ID:              s.newID(),
		Type:            ref.Kind(),
		SourceKey:       ref.Key,
		SourceName:      ref.Name,
		SourceURL:       ref.URL,
		SourceTrimStart: 0,
		SourceTrimEnd:   s.mediaSeconds,
		TimelineStart:   at,
		TimelineEnd:     at + s.mediaSeconds,
		PlaybackSpeed:   1.0,
		Volume:          DefaultVolume,
		Opacity:         100,
	}
	s.clips = append(s.clips, clip)
	s.logger.Info("clip added", "clip_id", clip.ID, "type", clip.Type, "at", at)
	s.mu.Unlock()
	s.notify()
	return clip.ID
}

// AddText inserts a new text clip anchored at the playhead with default
// styling and returns its id.
func (s *Store) AddText() string {
	s.mu.Lock()
	s.recordLocked()
	at := s.playback.CurrentTime
	clip := TextClip{
		ID:                s.newID(),
		Text:              defaultText,
		TimelineStart:     at,
		TimelineEnd:       at + s.textSeconds,
		X:                 0.5,
		Y:                 0.5,
		FontFamily:        defaultFontFamily,
		FontSize:          defaultFontSize,
		FontWeight:        defaultFontWeight,
		Color:             defaultTextColor,
		Background:        defaultTextBackground,
		Align:             AlignCenter,
		Opacity:           100,
		Animation:         defaultAnimation,
		AnimationDuration: defaultAnimationDuration,
	}
	s.clips = append(s.clips, clip)
	s.logger.Info("text clip added", "clip_id", clip.ID, "at", at)
	s.mu.Unlock()
	s.notify()
	return clip.ID
}

// Patch is a partial update applied through UpdateClip. MediaPatch applies
// to media clips, TextPatch to text clips; nil fields are left untouched.
type Patch interface{ isPatch() }

// MediaPatch updates properties of a MediaClip.
type MediaPatch struct {
	SourceTrimStart *float64
	SourceTrimEnd   *float64
	TimelineStart   *float64
	TimelineEnd     *float64
	PlaybackSpeed   *float64
	Volume          *float64
	Opacity         *float64
}

func (MediaPatch) isPatch() {}

// TextPatch updates properties of a TextClip.
type TextPatch struct {
	Text              *string
	TimelineStart     *float64
	TimelineEnd       *float64
	X                 *float64
	Y                 *float64
	FontFamily        *string
	FontSize          *float64
	FontWeight        *string
	Color             *string
	Background        *string
	Align             *string
	Opacity           *float64
	Animation         *string
	AnimationDuration *float64
}

func (TextPatch) isPatch() {}

// UpdateClip applies a patch to the identified clip. The patch must match
// the clip's kind and keep every invariant; otherwise nothing happens and
// no history is recorded.
func (s *Store) UpdateClip(id string, patch Patch) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	var updated Clip
	switch p := patch.(type) {
	case MediaPatch:
		clip, ok := s.clips[i].(MediaClip)
		if !ok {
			s.mu.Unlock()
			return false
		}
		next, changed := applyMediaPatch(clip, p)
		if !changed || !validMedia(next) {
			s.mu.Unlock()
			return false
		}
		updated = next
	case TextPatch:
		clip, ok := s.clips[i].(TextClip)
		if !ok {
			s.mu.Unlock()
			return false
		}
		next, changed := applyTextPatch(clip, p)
		if !changed || !validText(next) {
			s.mu.Unlock()
			return false
		}
		updated = next
	default:
		s.mu.Unlock()
		return false
	}

	s.recordLocked()
	s.clips[i] = updated
	s.mu.Unlock()
	s.notify()
	return true
}

func applyMediaPatch(c MediaClip, p MediaPatch) (MediaClip, bool) {
	changed := false
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	set(&c.SourceTrimStart, p.SourceTrimStart)
	set(&c.SourceTrimEnd, p.SourceTrimEnd)
	set(&c.TimelineStart, p.TimelineStart)
	set(&c.TimelineEnd, p.TimelineEnd)
	set(&c.PlaybackSpeed, p.PlaybackSpeed)
	set(&c.Volume, p.Volume)
	set(&c.Opacity, p.Opacity)
	return c, changed
}

func validMedia(c MediaClip) bool {
	if !IsValidPlacement(c.TimelineStart, c.TimelineEnd) {
		return false
	}
	if !IsValidTrim(c.SourceTrimStart, c.SourceTrimEnd, 0) {
		return false
	}
	if c.PlaybackSpeed <= 0 {
		return false
	}
	if c.Volume < 0 || c.Volume > 100 {
		return false
	}
	if c.Opacity < 0 || c.Opacity > 100 {
		return false
	}
	return true
}

func applyTextPatch(c TextClip, p TextPatch) (TextClip, bool) {
	changed := false
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setS := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setS(&c.Text, p.Text)
	setF(&c.TimelineStart, p.TimelineStart)
	setF(&c.TimelineEnd, p.TimelineEnd)
	setF(&c.X, p.X)
	setF(&c.Y, p.Y)
	setS(&c.FontFamily, p.FontFamily)
	setF(&c.FontSize, p.FontSize)
	setS(&c.FontWeight, p.FontWeight)
	setS(&c.Color, p.Color)
	setS(&c.Background, p.Background)
	setS(&c.Align, p.Align)
	setF(&c.Opacity, p.Opacity)
	setS(&c.Animation, p.Animation)
	setF(&c.AnimationDuration, p.AnimationDuration)
	return c, changed
}

func validText(c TextClip) bool {
	if !IsValidPlacement(c.TimelineStart, c.TimelineEnd) {
		return false
	}
	if c.X < 0 || c.X > 1 || c.Y < 0 || c.Y > 1 {
		return false
	}
	if c.FontSize <= 0 {
		return false
	}
	switch c.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return false
	}
	if c.Opacity < 0 || c.Opacity > 100 {
		return false
	}
	if c.AnimationDuration < 0 {
		return false
	}
	return true
}

// MoveClip shifts the clip so its placement starts at newStart, preserving
// its duration. Negative targets clamp to zero. Moving a clip to where it
// already is does nothing.
func (s *Store) MoveClip(id string, newStart float64) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if newStart < 0 {
		newStart = 0
	}
	start, _ := s.clips[i].Placement()
	delta := newStart - start
	if delta == 0 {
		s.mu.Unlock()
		return false
	}
	s.recordLocked()
	s.clips[i] = shifted(s.clips[i], delta)
	s.mu.Unlock()
	s.notify()
	return true
}

// SplitMedia cuts a media clip in two at the given timeline second. The
// first part keeps the clip's id and the source range scaled by playback
// speed up to the cut; the second part gets a fresh id and the remainder.
// Splitting at or outside the clip's boundaries is a no-op, as is splitting
// a text clip. The new clip's id is returned when the split applies.
func (s *Store) SplitMedia(id string, atTime float64) (string, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return "", false
	}
	clip, ok := s.clips[i].(MediaClip)
	if !ok {
		s.mu.Unlock()
		return "", false
	}
	if atTime <= clip.TimelineStart || atTime >= clip.TimelineEnd {
		s.mu.Unlock()
		return "", false
	}

	s.recordLocked()

	cutSource := clip.SourceTrimStart + (atTime-clip.TimelineStart)/clip.PlaybackSpeed

	first := clip
	first.TimelineEnd = atTime
	first.SourceTrimEnd = cutSource

	second := clip
	second.ID = s.newID()
	second.TimelineStart = atTime
	second.SourceTrimStart = cutSource

	s.clips[i] = first
	s.clips = append(s.clips, nil)
	copy(s.clips[i+2:], s.clips[i+1:])
	s.clips[i+1] = second

	s.logger.Info("clip split", "clip_id", clip.ID, "new_clip_id", second.ID, "at", atTime)
	s.mu.Unlock()
	s.notify()
	return second.ID, true
}

// DeleteSelected removes every selected clip and clears the selection.
// It does nothing when the selection is empty.
func (s *Store) DeleteSelected() bool {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return false
	}
	s.recordLocked()
	kept := s.clips[:0]
	removed := 0
	for _, c := range s.clips {
		if _, sel := s.selection[c.ClipID()]; sel {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	s.clips = kept
	s.selection = make(map[string]struct{})
	s.logger.Info("clips deleted", "count", removed)
	s.mu.Unlock()
	s.notify()
	return true
}

// Select makes the identified clip the only selected clip.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	s.selection = map[string]struct{}{id: {}}
	s.mu.Unlock()
	s.notify()
	return true
}

// ToggleSelect adds the clip to the selection, or removes it when already
// selected.
func (s *Store) ToggleSelect(id string) bool {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	if _, sel := s.selection[id]; sel {
		delete(s.selection, id)
	} else {
		s.selection[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// SelectAll selects every clip on the timeline.
func (s *Store) SelectAll() {
	s.mu.Lock()
	s.selection = make(map[string]struct{}, len(s.clips))
	for _, c := range s.clips {
		s.selection[c.ClipID()] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return
	}
	s.selection = make(map[string]struct{})
	s.mu.Unlock()
	s.notify()
}

// Copy replaces the clipboard with detached copies of the selected clips,
// in layer order, each carrying a fresh id. The timeline and selection are
// untouched and nothing is recorded.
func (s *Store) Copy() bool {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return false
	}
	s.clipboard = s.copySelectionLocked()
	s.mu.Unlock()
	s.notify()
	return true
}

func (s *Store) copySelectionLocked() []Clip {
	out := make([]Clip, 0, len(s.selection))
	for _, c := range s.clips {
		if _, sel := s.selection[c.ClipID()]; sel {
			out = append(out, withID(c, s.newID()))
		}
	}
	return out
}

// Cut copies the selected clips to the clipboard and deletes them in a
// single history step.
func (s *Store) Cut() bool {
	s.mu.Lock()
	if len(s.selection) == 0 {
		s.mu.Unlock()
		return false
	}
	s.clipboard = s.copySelectionLocked()
	s.recordLocked()
	kept := s.clips[:0]
	for _, c := range s.clips {
		if _, sel := s.selection[c.ClipID()]; sel {
			continue
		}
		kept = append(kept, c)
	}
	s.clips = kept
	s.selection = make(map[string]struct{})
	s.logger.Info("clips cut", "count", len(s.clipboard))
	s.mu.Unlock()
	s.notify()
	return true
}

// Paste inserts copies of the clipboard anchored at the playhead. The
// earliest clipboard clip lands exactly on the playhead and the others keep
// their offsets relative to it. Every paste mints fresh ids, so pasting
// twice yields independent clips. The clipboard is left intact.
func (s *Store) Paste() bool {
	s.mu.Lock()
	if len(s.clipboard) == 0 {
		s.mu.Unlock()
		return false
	}
	s.recordLocked()

	earliest := 0.0
	for i, c := range s.clipboard {
		start, _ := c.Placement()
		if i == 0 || start < earliest {
			earliest = start
		}
	}

	at := s.playback.CurrentTime
	delta := at - earliest
	for _, c := range s.clipboard {
		s.clips = append(s.clips, shifted(withID(c, s.newID()), delta))
	}
	s.logger.Info("clips pasted", "count", len(s.clipboard), "at", at)
	s.mu.Unlock()
	s.notify()
	return true
}

// Undo restores the state recorded before the most recent mutation. Clips
// and selection are replaced wholesale; playback parameters are untouched.
func (s *Store) Undo() bool {
	s.mu.Lock()
	snap, ok := s.history.Undo(s.snapshotLocked())
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.restoreLocked(snap)
	s.logger.Info("undo applied")
	s.mu.Unlock()
	s.notify()
	return true
}

// Redo reverses the most recent undo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	snap, ok := s.history.Redo(s.snapshotLocked())
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.restoreLocked(snap)
	s.logger.Info("redo applied")
	s.mu.Unlock()
	s.notify()
	return true
}

// ZoomIn increases the view scale one step, up to MaxZoom.
func (s *Store) ZoomIn() {
	s.mu.Lock()
	z := s.playback.Zoom * zoomStep
	if z > MaxZoom {
		z = MaxZoom
	}
	s.playback.Zoom = z
	s.mu.Unlock()
	s.notify()
}

// ZoomOut decreases the view scale one step, down to MinZoom.
func (s *Store) ZoomOut() {
	s.mu.Lock()
	z := s.playback.Zoom / zoomStep
	if z < MinZoom {
		z = MinZoom
	}
	s.playback.Zoom = z
	s.mu.Unlock()
	s.notify()
}

// SetCurrentTime moves the playhead, clamped to [0, duration].
func (s *Store) SetCurrentTime(t float64) {
	s.mu.Lock()
	if t < 0 {
		t = 0
	}
	if d := s.durationLocked(); t > d {
		t = d
	}
	if t == s.playback.CurrentTime {
		s.mu.Unlock()
		return
	}
	s.playback.CurrentTime = t
	s.mu.Unlock()
	s.notify()
}

// TogglePlayPause flips the playing flag.
func (s *Store) TogglePlayPause() {
	s.mu.Lock()
	s.playback.IsPlaying = !s.playback.IsPlaying
	s.mu.Unlock()
	s.notify()
}

// SetPlaying sets the playing flag.
func (s *Store) SetPlaying(playing bool) {
	s.mu.Lock()
	if s.playback.IsPlaying == playing {
		s.mu.Unlock()
		return
	}
	s.playback.IsPlaying = playing
	s.mu.Unlock()
	s.notify()
}

// SetMuted sets the mute flag.
func (s *Store) SetMuted(muted bool) {
	s.mu.Lock()
	if s.playback.IsMuted == muted {
		s.mu.Unlock()
		return
	}
	s.playback.IsMuted = muted
	s.mu.Unlock()
	s.notify()
}

// SetVolume sets the playback volume. Values outside [0, 100] are rejected.
func (s *Store) SetVolume(v float64) bool {
	if v < 0 || v > 100 {
		return false
	}
	s.mu.Lock()
	s.playback.Volume = v
	s.mu.Unlock()
	s.notify()
	return true
}

// SetPlaybackRate sets the playback rate. Non-positive rates are rejected.
func (s *Store) SetPlaybackRate(rate float64) bool {
	if rate <= 0 {
		return false
	}
	s.mu.Lock()
	s.playback.PlaybackRate = rate
	s.mu.Unlock()
	s.notify()
	return true
}

// SetInPoint sets the playback in point at the given time, clamped to the
// timeline. It is rejected when an out point exists at or before it.
func (s *Store) SetInPoint(t float64) bool {
	s.mu.Lock()
	if t < 0 {
		t = 0
	}
	if d := s.durationLocked(); t > d {
		t = d
	}
	if s.playback.OutPoint != nil && t >= *s.playback.OutPoint {
		s.mu.Unlock()
		return false
	}
	s.playback.InPoint = &t
	s.mu.Unlock()
	s.notify()
	return true
}

// SetOutPoint sets the playback out point at the given time, clamped to the
// timeline. It is rejected when an in point exists at or after it.
func (s *Store) SetOutPoint(t float64) bool {
	s.mu.Lock()
	if t < 0 {
		t = 0
	}
	if d := s.durationLocked(); t > d {
		t = d
	}
	if s.playback.InPoint != nil && t <= *s.playback.InPoint {
		s.mu.Unlock()
		return false
	}
	s.playback.OutPoint = &t
	s.mu.Unlock()
	s.notify()
	return true
}

// ClearInOutPoints removes both playback bounds.
func (s *Store) ClearInOutPoints() {
	s.mu.Lock()
	if s.playback.InPoint == nil && s.playback.OutPoint == nil {
		s.mu.Unlock()
		return
	}
	s.playback.InPoint = nil
	s.playback.OutPoint = nil
	s.mu.Unlock()
	s.notify()
}

// Clips returns a copy of the clip collection in layer order.
func (s *Store) Clips() []Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Clip(nil), s.clips...)
}

// Clip returns the clip with the given id.
func (s *Store) Clip(id string) (Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.clips[i], true
	}
	return nil, false
}

// ClipCount returns the number of clips on the timeline.
func (s *Store) ClipCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clips)
}

// Duration returns the timeline duration: the largest clip end, or zero for
// an empty timeline.
func (s *Store) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durationLocked()
}

// SelectedIDs returns the selected clip ids in sorted order.
func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIDsLocked()
}

// IsSelected reports whether the clip is part of the selection.
func (s *Store) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, sel := s.selection[id]
	return sel
}

// HasSelection reports whether any clip is selected.
func (s *Store) HasSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selection) > 0
}

// SelectionCount returns the number of selected clips.
func (s *Store) SelectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selection)
}

// HasClipboard reports whether a paste would insert anything.
func (s *Store) HasClipboard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clipboard) > 0
}

// CanUndo reports whether an undo step is available.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Playback returns a copy of the playback state.
func (s *Store) Playback() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playback.clone()
}

// Zoom returns the view scale factor.
func (s *Store) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playback.Zoom
}

// Project returns a consistent snapshot of the whole editing state for
// exporters and read-only API consumers.
func (s *Store) Project() ProjectSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ProjectSnapshot{
		Clips:     append([]Clip(nil), s.clips...),
		Selection: s.selectedIDsLocked(),
		Playback:  s.playback.clone(),
		Duration:  s.durationLocked(),
	}
}
