package tui

import (
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/assets"
	"github.com/reelsmith/reelsmith-agent/internal/export"
)

// binLoadedMsg carries the result of a media bin listing.
type binLoadedMsg struct {
	Assets []*assets.Asset
	Err    error
}

// refreshDoneMsg signals that a bin refresh finished; a binLoadedMsg with
// the fresh listing follows.
type refreshDoneMsg struct {
	Err error
}

// exportDoneMsg carries the result of writing an export artifact.
type exportDoneMsg struct {
	Result *export.Result
	Err    error
}

// clipboardMsg carries the result of a clipboard write.
type clipboardMsg struct {
	Err error
}

// storeChangedMsg signals that the timeline store notified its subscribers.
type storeChangedMsg struct{}

// tickMsg drives playhead redraws while playback is running.
type tickMsg time.Time
