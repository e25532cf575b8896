package stats

import (
	"time"

	"ffstats/internal/media/ffprobe"
	"ffstats/internal/services/ffmpeg"
)

// Entry is one progress record stamped with the wall time elapsed since the
// encoder started.
type Entry struct {
	Elapsed  time.Duration
	Progress ffmpeg.Progress
}

// Session is the import metadata plus the full, ordered progress history.
type Session struct {
	Import  ffprobe.Format
	History []Entry
}

// Append records p at elapsed.
func (s *Session) Append(elapsed time.Duration, p ffmpeg.Progress) {
	s.History = append(s.History, Entry{Elapsed: elapsed, Progress: p})
}

// Last returns the most recent entry, or the zero Entry when empty.
func (s Session) Last() Entry {
	if len(s.History) == 0 {
		return Entry{}
	}
	return s.History[len(s.History)-1]
}

// Len reports the number of recorded epochs.
func (s Session) Len() int { return len(s.History) }
