package download

import (
	"path/filepath"
	"time"

	"github.com/appimage-updater/appimage-updater/pkg/model"
)

// progressTracker throttles progress events to at most one per interval,
// with a final event on completion. Speed is the instantaneous rate since
// the previous event.
type progressTracker struct {
	appName  string
	filename string
	total    int64
	sink     ProgressFunc

	downloaded int64
	lastEmit   time.Time
	lastBytes  int64
}

func newProgressTracker(candidate *model.Candidate, total int64, sink ProgressFunc) *progressTracker {
	return &progressTracker{
		appName:  candidate.AppName,
		filename: filepath.Base(candidate.DownloadPath),
		total:    total,
		sink:     sink,
		lastEmit: time.Now(),
	}
}

func (t *progressTracker) advance(n int64) {
	t.downloaded += n
	if t.sink == nil {
		return
	}
	if elapsed := time.Since(t.lastEmit); elapsed >= progressInterval {
		t.emit(elapsed)
	}
}

func (t *progressTracker) finish() {
	if t.sink == nil {
		return
	}
	t.emit(time.Since(t.lastEmit))
}

func (t *progressTracker) emit(elapsed time.Duration) {
	var speed float64
	if seconds := elapsed.Seconds(); seconds > 0 {
		speed = float64(t.downloaded-t.lastBytes) / seconds
	}
	t.sink(model.ProgressEvent{
		AppName:    t.appName,
		Filename:   t.filename,
		Downloaded: t.downloaded,
		Total:      t.total,
		Speed:      speed,
	})
	t.lastEmit = time.Now()
	t.lastBytes = t.downloaded
}
