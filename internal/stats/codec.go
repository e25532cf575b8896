package stats

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"ffstats/internal/media/ffprobe"
	"ffstats/internal/services"
	"ffstats/internal/services/ffmpeg"
)

// CurrentVersion is the snapshot layout written by Encode.
const CurrentVersion uint16 = 1

// envelope selects the layout variant. Later layouts add a pointer field
// alongside V1 and bump Version.
type envelope struct {
	Version uint16
	V1      *sessionV1
}

type sessionV1 struct {
	Import  formatV1
	History []entryV1
}

type durationV1 struct {
	Seconds int64
	Nanos   int32
}

type formatV1 struct {
	Filename       string
	NBStreams      uint32
	NBPrograms     uint32
	FormatName     string
	FormatLongName string
	StartTime      durationV1
	Duration       durationV1
	Size           uint64
	BitRate        uint64
	ProbeScore     uint8
	Tags           map[string]string
}

type progressV1 struct {
	Frame      uint64
	FPS        float64
	Bitrate    uint64
	TotalSize  uint64
	OutTimeUS  uint64
	OutTimeMS  uint64
	OutTime    durationV1
	DupFrames  uint64
	DropFrames uint64
	Speed      float64
}

type entryV1 struct {
	Elapsed  durationV1
	Progress progressV1
}

// Encode writes session to w as a gzip-compressed snapshot.
func Encode(w io.Writer, session Session) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return snapshotErr("encode", "gzip writer", err)
	}
	env := envelope{Version: CurrentVersion, V1: toV1(session)}
	if err := gob.NewEncoder(zw).Encode(env); err != nil {
		_ = zw.Close()
		return snapshotErr("encode", "gob", err)
	}
	if err := zw.Close(); err != nil {
		return snapshotErr("encode", "flush gzip", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode. Unknown versions and truncated
// or corrupt streams return an error wrapping services.ErrSnapshot.
func Decode(r io.Reader) (Session, error) {
	zr, err := gzip.NewReader(bufio.NewReader(r))
	if err != nil {
		return Session{}, snapshotErr("decode", "gzip header", err)
	}
	defer zr.Close()

	var env envelope
	if err := gob.NewDecoder(zr).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Session{}, snapshotErr("decode", "gob", err)
	}
	switch env.Version {
	case 1:
		if env.V1 == nil {
			return Session{}, snapshotErr("decode", "version 1 payload missing", nil)
		}
		return fromV1(env.V1), nil
	default:
		return Session{}, snapshotErr("decode", fmt.Sprintf("unsupported version %d", env.Version), nil)
	}
}

func snapshotErr(operation, message string, err error) error {
	return services.Wrap(services.ErrSnapshot, "stats", operation, message, err)
}

func toV1(s Session) *sessionV1 {
	out := &sessionV1{
		Import: formatV1{
			Filename:       s.Import.Filename,
			NBStreams:      s.Import.NBStreams,
			NBPrograms:     s.Import.NBPrograms,
			FormatName:     s.Import.FormatName,
			FormatLongName: s.Import.FormatLongName,
			StartTime:      splitDuration(s.Import.StartTime),
			Duration:       splitDuration(s.Import.Duration),
			Size:           s.Import.Size,
			BitRate:        s.Import.BitRate,
			ProbeScore:     s.Import.ProbeScore,
			Tags:           s.Import.Tags,
		},
		History: make([]entryV1, len(s.History)),
	}
	for i, e := range s.History {
		p := e.Progress
		out.History[i] = entryV1{
			Elapsed: splitDuration(e.Elapsed),
			Progress: progressV1{
				Frame:      p.Frame,
				FPS:        p.FPS,
				Bitrate:    p.Bitrate,
				TotalSize:  p.TotalSize,
				OutTimeUS:  p.OutTimeUS,
				OutTimeMS:  p.OutTimeMS,
				OutTime:    splitDuration(p.OutTime),
				DupFrames:  p.DupFrames,
				DropFrames: p.DropFrames,
				Speed:      p.Speed,
			},
		}
	}
	return out
}

func fromV1(v *sessionV1) Session {
	tags := make(map[string]string, len(v.Import.Tags))
	for k, val := range v.Import.Tags {
		tags[k] = val
	}
	out := Session{
		Import: ffprobe.Format{
			Filename:       v.Import.Filename,
			NBStreams:      v.Import.NBStreams,
			NBPrograms:     v.Import.NBPrograms,
			FormatName:     v.Import.FormatName,
			FormatLongName: v.Import.FormatLongName,
			StartTime:      v.Import.StartTime.duration(),
			Duration:       v.Import.Duration.duration(),
			Size:           v.Import.Size,
			BitRate:        v.Import.BitRate,
			ProbeScore:     v.Import.ProbeScore,
			Tags:           tags,
		},
		History: make([]Entry, len(v.History)),
	}
	for i, e := range v.History {
		p := e.Progress
		out.History[i] = Entry{
			Elapsed: e.Elapsed.duration(),
			Progress: ffmpeg.Progress{
				Frame:      p.Frame,
				FPS:        p.FPS,
				Bitrate:    p.Bitrate,
				TotalSize:  p.TotalSize,
				OutTimeUS:  p.OutTimeUS,
				OutTimeMS:  p.OutTimeMS,
				OutTime:    p.OutTime.duration(),
				DupFrames:  p.DupFrames,
				DropFrames: p.DropFrames,
				Speed:      p.Speed,
			},
		}
	}
	return out
}

func splitDuration(d time.Duration) durationV1 {
	return durationV1{
		Seconds: int64(d / time.Second),
		Nanos:   int32(d % time.Second),
	}
}

func (d durationV1) duration() time.Duration {
	return time.Duration(d.Seconds)*time.Second + time.Duration(d.Nanos)
}
