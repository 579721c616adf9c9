package timeline

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func newTestStore() *Store {
	n := 0
	return NewStore(Config{
		NewID:  func() string { n++; return fmt.Sprintf("clip-%d", n) },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func testRef() AssetRef {
	return AssetRef{
		Key:         "media/intro.mp4",
		Name:        "intro.mp4",
		URL:         "https://cdn.example.com/media/intro.mp4?sig=abc",
		ContentType: "video/mp4",
	}
}

// editState is the undoable portion of the store: clips plus selection.
type editState struct {
	clips     []Clip
	selection []string
}

func capture(s *Store) editState {
	return editState{clips: s.Clips(), selection: s.SelectedIDs()}
}

func statesEqual(a, b editState) bool {
	if len(a.clips) != len(b.clips) || len(a.selection) != len(b.selection) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func mustMedia(t *testing.T, s *Store, id string) MediaClip {
	t.Helper()
	c, ok := s.Clip(id)
	if !ok {
		t.Fatalf("clip %s not found", id)
	}
	m, ok := c.(MediaClip)
	if !ok {
		t.Fatalf("clip %s is %T, want MediaClip", id, c)
	}
	return m
}

func mustText(t *testing.T, s *Store, id string) TextClip {
	t.Helper()
	c, ok := s.Clip(id)
	if !ok {
		t.Fatalf("clip %s not found", id)
	}
	tc, ok := c.(TextClip)
	if !ok {
		t.Fatalf("clip %s is %T, want TextClip", id, c)
	}
	return tc
}

func TestAddMediaAtPlayhead(t *testing.T) {
	s := newTestStore()
	s.SetCurrentTime(0) // no clips yet, playhead stays at 0

	id := s.AddMedia(testRef())
	clip := mustMedia(t, s, id)

	if clip.Type != ClipVideo {
		t.Errorf("Type = %q, want video", clip.Type)
	}
	if clip.TimelineStart != 0 || clip.TimelineEnd != DefaultMediaSeconds {
		t.Errorf("placement = [%v, %v), want [0, %v)", clip.TimelineStart, clip.TimelineEnd, DefaultMediaSeconds)
	}
	if clip.SourceTrimStart != 0 || clip.SourceTrimEnd != DefaultMediaSeconds {
		t.Errorf("trim = [%v, %v), want [0, %v)", clip.SourceTrimStart, clip.SourceTrimEnd, DefaultMediaSeconds)
	}
	if clip.PlaybackSpeed != 1 || clip.Volume != DefaultVolume || clip.Opacity != 100 {
		t.Errorf("defaults = speed %v volume %v opacity %v", clip.PlaybackSpeed, clip.Volume, clip.Opacity)
	}
	if !s.CanUndo() {
		t.Error("CanUndo() = false after AddMedia")
	}

	// A second clip lands at the playhead, not at zero.
	s.SetCurrentTime(3)
	id2 := s.AddMedia(AssetRef{Key: "media/voice.mp3", ContentType: "audio/mpeg"})
	clip2 := mustMedia(t, s, id2)
	if clip2.Type != ClipAudio {
		t.Errorf("Type = %q, want audio", clip2.Type)
	}
	if clip2.TimelineStart != 3 || clip2.TimelineEnd != 3+DefaultMediaSeconds {
		t.Errorf("placement = [%v, %v), want [3, 8)", clip2.TimelineStart, clip2.TimelineEnd)
	}
}

func TestAddTextDefaults(t *testing.T) {
	s := newTestStore()
	id := s.AddText()
	clip := mustText(t, s, id)

	if clip.TimelineStart != 0 || clip.TimelineEnd != DefaultTextSeconds {
		t.Errorf("placement = [%v, %v), want [0, %v)", clip.TimelineStart, clip.TimelineEnd, DefaultTextSeconds)
	}
	if clip.Text != defaultText {
		t.Errorf("Text = %q, want %q", clip.Text, defaultText)
	}
	if clip.X != 0.5 || clip.Y != 0.5 {
		t.Errorf("position = (%v, %v), want centered", clip.X, clip.Y)
	}
	if clip.Align != AlignCenter {
		t.Errorf("Align = %q, want center", clip.Align)
	}
	if clip.Animation != defaultAnimation || clip.Opacity != 100 {
		t.Errorf("animation %q opacity %v, want %q 100", clip.Animation, clip.Opacity, defaultAnimation)
	}
}

func TestUpdateClip(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	str := func(v string) *string { return &v }

	t.Run("media patch applies", func(t *testing.T) {
		s := newTestStore()
		id := s.AddMedia(testRef())
		if !s.UpdateClip(id, MediaPatch{Volume: f(40), Opacity: f(80)}) {
			t.Fatal("valid patch rejected")
		}
		clip := mustMedia(t, s, id)
		if clip.Volume != 40 || clip.Opacity != 80 {
			t.Errorf("volume %v opacity %v, want 40 80", clip.Volume, clip.Opacity)
		}
	})

	t.Run("text patch applies", func(t *testing.T) {
		s := newTestStore()
		id := s.AddText()
		if !s.UpdateClip(id, TextPatch{Text: str("Chapter one"), Align: str(AlignLeft)}) {
			t.Fatal("valid patch rejected")
		}
		clip := mustText(t, s, id)
		if clip.Text != "Chapter one" || clip.Align != AlignLeft {
			t.Errorf("text %q align %q after patch", clip.Text, clip.Align)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		s := newTestStore()
		mediaID := s.AddMedia(testRef())
		textID := s.AddText()

		tests := []struct {
			name  string
			id    string
			patch Patch
		}{
			{"missing id", "nope", MediaPatch{Volume: f(10)}},
			{"media patch on text clip", textID, MediaPatch{Volume: f(10)}},
			{"text patch on media clip", mediaID, TextPatch{Text: str("x")}},
			{"empty patch", mediaID, MediaPatch{}},
			{"volume out of range", mediaID, MediaPatch{Volume: f(101)}},
			{"negative opacity", mediaID, MediaPatch{Opacity: f(-1)}},
			{"zero speed", mediaID, MediaPatch{PlaybackSpeed: f(0)}},
			{"degenerate placement", mediaID, MediaPatch{TimelineStart: f(5), TimelineEnd: f(5)}},
			{"inverted trim", mediaID, MediaPatch{SourceTrimStart: f(6), SourceTrimEnd: f(2)}},
			{"bad align", textID, TextPatch{Align: str("justified")}},
			{"position out of bounds", textID, TextPatch{X: f(1.5)}},
			{"zero font size", textID, TextPatch{FontSize: f(0)}},
			{"negative animation duration", textID, TextPatch{AnimationDuration: f(-0.1)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				before := capture(s)
				if s.UpdateClip(tt.id, tt.patch) {
					t.Fatal("invalid patch applied")
				}
				if !statesEqual(before, capture(s)) {
					t.Error("rejected patch changed state")
				}
			})
		}
	})

	t.Run("rejected patch records no history", func(t *testing.T) {
		s := newTestStore()
		id := s.AddMedia(testRef())
		s.UpdateClip(id, MediaPatch{Volume: f(500)})
		if !s.Undo() {
			t.Fatal("Undo failed")
		}
		if s.ClipCount() != 0 {
			t.Error("undo did not reach the pre-add state; rejected patch recorded history")
		}
		if s.CanUndo() {
			t.Error("CanUndo() = true, want false")
		}
	})
}

func TestMoveClip(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef()) // [0, 5)

	if !s.MoveClip(id, 7) {
		t.Fatal("MoveClip rejected valid move")
	}
	clip := mustMedia(t, s, id)
	if clip.TimelineStart != 7 || clip.TimelineEnd != 12 {
		t.Errorf("placement = [%v, %v), want [7, 12)", clip.TimelineStart, clip.TimelineEnd)
	}
	if clip.SourceTrimStart != 0 || clip.SourceTrimEnd != 5 {
		t.Errorf("move changed source trim: [%v, %v)", clip.SourceTrimStart, clip.SourceTrimEnd)
	}

	// Negative targets clamp to zero.
	if !s.MoveClip(id, -3) {
		t.Fatal("MoveClip rejected clamping move")
	}
	clip = mustMedia(t, s, id)
	if clip.TimelineStart != 0 || clip.TimelineEnd != 5 {
		t.Errorf("placement = [%v, %v), want [0, 5)", clip.TimelineStart, clip.TimelineEnd)
	}

	if s.MoveClip(id, 0) {
		t.Error("MoveClip to current position reported applied")
	}
	if s.MoveClip("missing", 1) {
		t.Error("MoveClip on missing id reported applied")
	}
}

func TestSplitConservation(t *testing.T) {
	tests := []struct {
		name                 string
		start, end           float64
		trimStart, trimEnd   float64
		speed                float64
		at                   float64
		wantCut              float64 // expected source position of the cut
	}{
		{"unit speed", 0, 10, 0, 10, 1, 4, 4},
		{"double speed", 2, 8, 5, 8, 2, 5, 6.5},
		{"half speed", 0, 4, 0, 8, 0.5, 1, 2},
		{"offset trim", 1, 6, 10, 15, 1, 3, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			id := s.AddMedia(testRef())
			if !s.UpdateClip(id, MediaPatch{
				TimelineStart:   &tt.start,
				TimelineEnd:     &tt.end,
				SourceTrimStart: &tt.trimStart,
				SourceTrimEnd:   &tt.trimEnd,
				PlaybackSpeed:   &tt.speed,
			}) {
				t.Fatal("setup patch rejected")
			}

			newID, ok := s.SplitMedia(id, tt.at)
			if !ok {
				t.Fatalf("SplitMedia(%v) rejected", tt.at)
			}

			first := mustMedia(t, s, id)
			second := mustMedia(t, s, newID)

			// Placement intervals are contiguous and cover the original.
			if first.TimelineStart != tt.start || first.TimelineEnd != tt.at {
				t.Errorf("first placement = [%v, %v), want [%v, %v)", first.TimelineStart, first.TimelineEnd, tt.start, tt.at)
			}
			if second.TimelineStart != tt.at || second.TimelineEnd != tt.end {
				t.Errorf("second placement = [%v, %v), want [%v, %v)", second.TimelineStart, second.TimelineEnd, tt.at, tt.end)
			}

			// Source ranges are contiguous and cover the original trim.
			if first.SourceTrimStart != tt.trimStart {
				t.Errorf("first trim start = %v, want %v", first.SourceTrimStart, tt.trimStart)
			}
			if first.SourceTrimEnd != tt.wantCut {
				t.Errorf("first trim end = %v, want %v", first.SourceTrimEnd, tt.wantCut)
			}
			if second.SourceTrimStart != tt.wantCut {
				t.Errorf("second trim start = %v, want %v", second.SourceTrimStart, tt.wantCut)
			}
			if second.SourceTrimEnd != tt.trimEnd {
				t.Errorf("second trim end = %v, want %v", second.SourceTrimEnd, tt.trimEnd)
			}

			// Properties carry over to both halves.
			if first.PlaybackSpeed != tt.speed || second.PlaybackSpeed != tt.speed {
				t.Errorf("speeds = %v, %v, want %v", first.PlaybackSpeed, second.PlaybackSpeed, tt.speed)
			}
			if second.Volume != first.Volume || second.Opacity != first.Opacity {
				t.Error("volume/opacity not carried to second half")
			}
			if second.ID == first.ID {
				t.Error("second half did not receive a fresh id")
			}
		})
	}
}

func TestSplitScenario(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef())
	ten := 10.0
	if !s.UpdateClip(id, MediaPatch{TimelineEnd: &ten, SourceTrimEnd: &ten}) {
		t.Fatal("setup patch rejected")
	}

	newID, ok := s.SplitMedia(id, 4)
	if !ok {
		t.Fatal("SplitMedia(4) rejected")
	}
	if s.ClipCount() != 2 {
		t.Fatalf("ClipCount() = %d, want 2", s.ClipCount())
	}

	first := mustMedia(t, s, id)
	second := mustMedia(t, s, newID)
	if first.TimelineStart != 0 || first.TimelineEnd != 4 || first.SourceTrimStart != 0 || first.SourceTrimEnd != 4 {
		t.Errorf("first = {%v,%v,%v,%v}, want {0,4,0,4}", first.TimelineStart, first.TimelineEnd, first.SourceTrimStart, first.SourceTrimEnd)
	}
	if second.TimelineStart != 4 || second.TimelineEnd != 10 || second.SourceTrimStart != 4 || second.SourceTrimEnd != 10 {
		t.Errorf("second = {%v,%v,%v,%v}, want {4,10,4,10}", second.TimelineStart, second.TimelineEnd, second.SourceTrimStart, second.SourceTrimEnd)
	}

	// The new half sits directly above the first in layer order.
	clips := s.Clips()
	if clips[0].ClipID() != id || clips[1].ClipID() != newID {
		t.Errorf("layer order = [%s, %s], want [%s, %s]", clips[0].ClipID(), clips[1].ClipID(), id, newID)
	}

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if s.ClipCount() != 1 {
		t.Fatalf("ClipCount() = %d after undo, want 1", s.ClipCount())
	}
	restored := mustMedia(t, s, id)
	if restored.ID != id {
		t.Errorf("restored id = %s, want %s", restored.ID, id)
	}
	if restored.TimelineEnd != 10 || restored.SourceTrimEnd != 10 {
		t.Errorf("restored clip = {%v,%v}, want original extents", restored.TimelineEnd, restored.SourceTrimEnd)
	}
}

func TestSplitBoundaryRejection(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef()) // [0, 5)
	textID := s.AddText()

	tests := []struct {
		name string
		id   string
		at   float64
	}{
		{"at start", id, 0},
		{"at end", id, 5},
		{"before start", id, -1},
		{"past end", id, 6},
		{"missing id", "missing", 2},
		{"text clip", textID, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := capture(s)
			if newID, ok := s.SplitMedia(tt.id, tt.at); ok {
				t.Fatalf("SplitMedia(%s, %v) applied, new id %s", tt.id, tt.at, newID)
			}
			if !statesEqual(before, capture(s)) {
				t.Error("rejected split changed state")
			}
		})
	}

	// Rejected splits record nothing: two undos reach the empty timeline.
	s.Undo()
	s.Undo()
	if s.CanUndo() {
		t.Error("CanUndo() = true after unwinding both adds; a rejected split recorded history")
	}
	if s.ClipCount() != 0 {
		t.Errorf("ClipCount() = %d, want 0", s.ClipCount())
	}
}

func TestDeleteSelected(t *testing.T) {
	s := newTestStore()
	a := s.AddMedia(testRef())
	b := s.AddText()
	c := s.AddMedia(testRef())

	if s.DeleteSelected() {
		t.Error("DeleteSelected with empty selection reported applied")
	}

	s.Select(a)
	s.ToggleSelect(c)
	if !s.DeleteSelected() {
		t.Fatal("DeleteSelected rejected")
	}
	if s.ClipCount() != 1 {
		t.Fatalf("ClipCount() = %d, want 1", s.ClipCount())
	}
	if _, ok := s.Clip(b); !ok {
		t.Error("unselected clip was deleted")
	}
	if s.HasSelection() {
		t.Error("selection not cleared by delete")
	}
}

func TestSelectionOps(t *testing.T) {
	s := newTestStore()
	a := s.AddMedia(testRef())
	b := s.AddText()

	if s.Select("missing") {
		t.Error("Select on missing id reported applied")
	}
	if !s.Select(a) {
		t.Fatal("Select rejected")
	}
	if !s.IsSelected(a) || s.IsSelected(b) {
		t.Error("Select did not make the clip the only selection")
	}

	s.Select(b)
	if s.IsSelected(a) || !s.IsSelected(b) {
		t.Error("Select did not replace the selection")
	}

	s.ToggleSelect(a)
	if s.SelectionCount() != 2 {
		t.Errorf("SelectionCount() = %d, want 2", s.SelectionCount())
	}
	s.ToggleSelect(a)
	if s.IsSelected(a) {
		t.Error("ToggleSelect did not deselect")
	}

	s.SelectAll()
	if s.SelectionCount() != 2 {
		t.Errorf("SelectAll selected %d clips, want 2", s.SelectionCount())
	}
	s.ClearSelection()
	if s.HasSelection() {
		t.Error("ClearSelection left a selection")
	}
}

func TestClipboardIsolation(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef())
	s.Select(id)

	if s.Paste() {
		t.Error("Paste with empty clipboard reported applied")
	}
	if !s.Copy() {
		t.Fatal("Copy rejected")
	}

	// Mutating the original after copy must not leak into the clipboard.
	vol := 25.0
	if !s.UpdateClip(id, MediaPatch{Volume: &vol}) {
		t.Fatal("patch rejected")
	}

	s.SetCurrentTime(0)
	if !s.Paste() {
		t.Fatal("Paste rejected")
	}

	var pasted MediaClip
	found := false
	for _, c := range s.Clips() {
		if m, ok := c.(MediaClip); ok && m.ID != id {
			pasted = m
			found = true
		}
	}
	if !found {
		t.Fatal("pasted clip not found")
	}
	if pasted.Volume != DefaultVolume {
		t.Errorf("pasted volume = %v, want the value at copy time (%v)", pasted.Volume, DefaultVolume)
	}
}

func TestCopyLeavesSelectionAndTimeline(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef())
	s.Select(id)
	before := capture(s)

	if !s.Copy() {
		t.Fatal("Copy rejected")
	}
	if !statesEqual(before, capture(s)) {
		t.Error("Copy changed clips or selection")
	}
	if !s.HasClipboard() {
		t.Error("HasClipboard() = false after copy")
	}
}

func TestPasteOnEmptyTimeline(t *testing.T) {
	s := newTestStore()
	a := s.AddMedia(testRef()) // [0, 5)
	s.SetCurrentTime(2)
	b := s.AddMedia(testRef()) // [2, 7)

	s.SelectAll()
	if !s.Cut() {
		t.Fatal("Cut rejected")
	}
	if s.ClipCount() != 0 {
		t.Fatalf("ClipCount() = %d after cut, want 0", s.ClipCount())
	}

	// The playhead clamps to the empty timeline, so the paste anchors at 0
	// with the 2s relative offset intact.
	s.SetCurrentTime(20)
	if !s.Paste() {
		t.Fatal("Paste rejected")
	}
	clips := s.Clips()
	if len(clips) != 2 {
		t.Fatalf("ClipCount() = %d after paste, want 2", len(clips))
	}
	for i, want := range []float64{0, 2} {
		start, _ := clips[i].Placement()
		if start != want {
			t.Errorf("pasted clip %d starts at %v, want %v", i, start, want)
		}
		if id := clips[i].ClipID(); id == a || id == b {
			t.Errorf("pasted clip reused id %s", id)
		}
	}
}

func TestCutPasteRelativeOffsets(t *testing.T) {
	s := newTestStore()
	a := s.AddMedia(testRef()) // [0, 5)
	s.SetCurrentTime(2)
	b := s.AddMedia(testRef()) // [2, 7)
	// A third clip keeps the timeline long enough to park the playhead at 20.
	s.SetCurrentTime(7)
	long := 30.0
	cID := s.AddMedia(testRef())
	if !s.UpdateClip(cID, MediaPatch{TimelineEnd: &long, SourceTrimEnd: &long}) {
		t.Fatal("setup patch rejected")
	}

	s.Select(a)
	s.ToggleSelect(b)
	if !s.Cut() {
		t.Fatal("Cut rejected")
	}
	if _, ok := s.Clip(a); ok {
		t.Error("clip A still on timeline after cut")
	}
	if _, ok := s.Clip(b); ok {
		t.Error("clip B still on timeline after cut")
	}

	s.SetCurrentTime(20)
	if !s.Paste() {
		t.Fatal("Paste rejected")
	}

	var starts []float64
	var ids []string
	for _, c := range s.Clips() {
		if c.ClipID() == cID {
			continue
		}
		start, _ := c.Placement()
		starts = append(starts, start)
		ids = append(ids, c.ClipID())
	}
	if len(starts) != 2 {
		t.Fatalf("pasted %d clips, want 2", len(starts))
	}
	if starts[0] != 20 || starts[1] != 22 {
		t.Errorf("pasted starts = %v, want [20 22]", starts)
	}
	for _, id := range ids {
		if id == a || id == b {
			t.Errorf("pasted clip reused id %s", id)
		}
	}

	// Fresh ids again on every paste.
	if !s.Paste() {
		t.Fatal("second Paste rejected")
	}
	seen := make(map[string]bool)
	for _, c := range s.Clips() {
		if seen[c.ClipID()] {
			t.Fatalf("duplicate clip id %s after second paste", c.ClipID())
		}
		seen[c.ClipID()] = true
	}
}

func TestUndoExactness(t *testing.T) {
	s := newTestStore()

	var before []editState
	mutate := func(op func()) {
		before = append(before, capture(s))
		op()
	}

	var mediaID, textID string
	mutate(func() { mediaID = s.AddMedia(testRef()) })
	mutate(func() { textID = s.AddText() })
	mutate(func() {
		if !s.MoveClip(textID, 8) {
			t.Fatal("move rejected")
		}
	})
	vol := 30.0
	mutate(func() {
		if !s.UpdateClip(mediaID, MediaPatch{Volume: &vol}) {
			t.Fatal("patch rejected")
		}
	})
	mutate(func() {
		if _, ok := s.SplitMedia(mediaID, 2); !ok {
			t.Fatal("split rejected")
		}
	})
	s.Select(textID)
	mutate(func() {
		if !s.DeleteSelected() {
			t.Fatal("delete rejected")
		}
	})
	s.Select(mediaID)
	if !s.Copy() {
		t.Fatal("copy rejected")
	}
	s.SetCurrentTime(12)
	mutate(func() {
		if !s.Paste() {
			t.Fatal("paste rejected")
		}
	})

	for i := len(before) - 1; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("Undo #%d failed", len(before)-i)
		}
		got := capture(s)
		if !statesEqual(before[i], got) {
			t.Fatalf("undo #%d did not restore the pre-mutation state exactly", len(before)-i)
		}
	}
	if s.CanUndo() {
		t.Error("CanUndo() = true after unwinding every mutation")
	}
}

func TestRedoUndoDuality(t *testing.T) {
	s := newTestStore()
	s.AddMedia(testRef())
	s.AddText()

	afterBoth := capture(s)
	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	afterUndo := capture(s)

	// redo(); undo() leaves the observable state unchanged.
	if !s.Redo() {
		t.Fatal("Redo failed")
	}
	if !s.Undo() {
		t.Fatal("Undo after redo failed")
	}
	if !statesEqual(afterUndo, capture(s)) {
		t.Error("redo();undo() changed the observable state")
	}

	// undo(); redo() likewise.
	if !s.Undo() {
		t.Fatal("second Undo failed")
	}
	if !s.Redo() {
		t.Fatal("Redo failed")
	}
	if !statesEqual(afterUndo, capture(s)) {
		t.Error("undo();redo() changed the observable state")
	}

	if !s.Redo() {
		t.Fatal("final Redo failed")
	}
	if !statesEqual(afterBoth, capture(s)) {
		t.Error("redo did not restore the final state")
	}

	if s.Redo() {
		t.Error("Redo on empty future reported applied")
	}
}

func TestHistoryTruncationOnNewAction(t *testing.T) {
	s := newTestStore()
	s.AddMedia(testRef())
	s.AddText()

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if !s.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}

	s.AddText() // new mutation truncates the future
	if s.CanRedo() {
		t.Error("CanRedo() = true after a new mutation")
	}
	if s.Redo() {
		t.Error("Redo applied after the future was truncated")
	}
}

func TestHistoryDepthBoundInStore(t *testing.T) {
	n := 0
	s := NewStore(Config{
		HistoryDepth: 3,
		NewID:        func() string { n++; return fmt.Sprintf("clip-%d", n) },
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	for i := 0; i < 5; i++ {
		s.AddText()
	}

	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != 3 {
		t.Errorf("undo steps = %d, want 3 (oldest snapshots evicted)", undos)
	}
	if s.ClipCount() != 2 {
		t.Errorf("ClipCount() = %d after bounded undo, want 2", s.ClipCount())
	}
}

func TestNonMutatingOpsRecordNothing(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef())

	s.SetCurrentTime(2)
	s.TogglePlayPause()
	s.TogglePlayPause()
	s.SetPlaying(true)
	s.SetPlaying(false)
	s.SetMuted(true)
	s.SetVolume(50)
	s.SetPlaybackRate(2)
	s.ZoomIn()
	s.ZoomOut()
	s.Select(id)
	s.SelectAll()
	s.ClearSelection()
	s.Select(id)
	s.Copy()
	s.SetInPoint(1)
	s.SetOutPoint(4)
	s.ClearInOutPoints()

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if s.ClipCount() != 0 {
		t.Error("undo skipped over a non-mutating operation snapshot")
	}
	if s.CanUndo() {
		t.Error("non-mutating operations recorded history")
	}
}

func TestPlayheadClamping(t *testing.T) {
	s := newTestStore()
	s.AddMedia(testRef()) // duration 5

	s.SetCurrentTime(-2)
	if got := s.Playback().CurrentTime; got != 0 {
		t.Errorf("CurrentTime = %v, want 0", got)
	}
	s.SetCurrentTime(99)
	if got := s.Playback().CurrentTime; got != 5 {
		t.Errorf("CurrentTime = %v, want clamp to duration 5", got)
	}
	s.SetCurrentTime(3.5)
	if got := s.Playback().CurrentTime; got != 3.5 {
		t.Errorf("CurrentTime = %v, want 3.5", got)
	}
}

func TestPlaybackParameterValidation(t *testing.T) {
	s := newTestStore()

	if s.SetVolume(-1) || s.SetVolume(100.5) {
		t.Error("out-of-range volume accepted")
	}
	if !s.SetVolume(0) || !s.SetVolume(100) || !s.SetVolume(62.5) {
		t.Error("valid volume rejected")
	}
	if got := s.Playback().Volume; got != 62.5 {
		t.Errorf("Volume = %v, want 62.5", got)
	}

	if s.SetPlaybackRate(0) || s.SetPlaybackRate(-1) {
		t.Error("non-positive rate accepted")
	}
	if !s.SetPlaybackRate(1.5) {
		t.Error("valid rate rejected")
	}
	if got := s.Playback().PlaybackRate; got != 1.5 {
		t.Errorf("PlaybackRate = %v, want 1.5", got)
	}

	s.SetMuted(true)
	if !s.Playback().IsMuted {
		t.Error("SetMuted(true) not applied")
	}

	s.TogglePlayPause()
	if !s.Playback().IsPlaying {
		t.Error("TogglePlayPause did not start playback")
	}
	s.SetPlaying(false)
	if s.Playback().IsPlaying {
		t.Error("SetPlaying(false) not applied")
	}
}

func TestZoomBounds(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 20; i++ {
		s.ZoomIn()
	}
	if got := s.Zoom(); got != MaxZoom {
		t.Errorf("Zoom() = %v after repeated ZoomIn, want %v", got, MaxZoom)
	}
	for i := 0; i < 40; i++ {
		s.ZoomOut()
	}
	if got := s.Zoom(); got != MinZoom {
		t.Errorf("Zoom() = %v after repeated ZoomOut, want %v", got, MinZoom)
	}
}

func TestInOutPoints(t *testing.T) {
	s := newTestStore()
	s.AddMedia(testRef()) // duration 5

	if !s.SetOutPoint(4) {
		t.Fatal("SetOutPoint rejected")
	}
	if !s.SetInPoint(1) {
		t.Fatal("SetInPoint rejected")
	}
	if s.SetInPoint(4) {
		t.Error("in point at the out point accepted")
	}
	if s.SetOutPoint(0.5) {
		t.Error("out point before the in point accepted")
	}

	ps := s.Playback()
	if ps.InPoint == nil || *ps.InPoint != 1 {
		t.Errorf("InPoint = %v, want 1", ps.InPoint)
	}
	if ps.OutPoint == nil || *ps.OutPoint != 4 {
		t.Errorf("OutPoint = %v, want 4", ps.OutPoint)
	}

	// Out points clamp to the timeline extent.
	s.ClearInOutPoints()
	if !s.SetOutPoint(50) {
		t.Fatal("SetOutPoint(50) rejected")
	}
	if ps := s.Playback(); ps.OutPoint == nil || *ps.OutPoint != 5 {
		t.Errorf("OutPoint = %v, want clamp to 5", ps.OutPoint)
	}

	s.ClearInOutPoints()
	ps = s.Playback()
	if ps.InPoint != nil || ps.OutPoint != nil {
		t.Error("ClearInOutPoints left a bound set")
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestStore()

	count := 0
	unsubscribe := s.Subscribe(func() { count++ })

	s.AddMedia(testRef())
	if count != 1 {
		t.Fatalf("notifications = %d after AddMedia, want 1", count)
	}

	// Rejected operations do not notify.
	s.UpdateClip("missing", MediaPatch{})
	s.Paste()
	if count != 1 {
		t.Errorf("notifications = %d after rejected ops, want 1", count)
	}

	s.SetCurrentTime(1)
	if count != 2 {
		t.Errorf("notifications = %d after scrub, want 2", count)
	}

	unsubscribe()
	s.AddText()
	if count != 2 {
		t.Errorf("notifications = %d after unsubscribe, want 2", count)
	}
}

func TestReset(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef())
	s.Select(id)
	s.Copy()
	s.SetVolume(10)
	s.SetCurrentTime(3)

	s.Reset()

	if s.ClipCount() != 0 || s.HasSelection() || s.HasClipboard() {
		t.Error("Reset left clips, selection, or clipboard")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("Reset left history")
	}
	ps := s.Playback()
	if ps.CurrentTime != 0 || ps.Volume != DefaultVolume || ps.Zoom != DefaultZoom {
		t.Errorf("Reset playback = %+v, want initial state", ps)
	}
}

func TestProjectSnapshotDetached(t *testing.T) {
	s := newTestStore()
	id := s.AddMedia(testRef())
	s.Select(id)

	snap := s.Project()
	if len(snap.Clips) != 1 || snap.Duration != 5 {
		t.Fatalf("snapshot = %d clips, duration %v", len(snap.Clips), snap.Duration)
	}
	if len(snap.Selection) != 1 || snap.Selection[0] != id {
		t.Errorf("snapshot selection = %v, want [%s]", snap.Selection, id)
	}

	s.AddText()
	s.SetCurrentTime(2)
	if len(snap.Clips) != 1 {
		t.Error("snapshot clips aliased to live state")
	}
	if snap.Playback.CurrentTime != 0 {
		t.Error("snapshot playback aliased to live state")
	}
}
