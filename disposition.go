package pkgreader

import (
	"github.com/kslabs/pkgreader/keystash"
	"github.com/kslabs/pkgreader/sig"
)

// Level is the log severity the embedding application should use for a
// read's diagnostic. The core never logs; it hands the level out and the
// application owns the logger.
type Level uint8

const (
	LevelDebug Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarning:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// Disposition is a Result mapped to user-visible policy: whether the read
// counts as a success, and at what level its message deserves logging.
type Disposition struct {
	Verdict sig.Verdict
	Level   Level
	Message string
	// OK reports whether the caller should proceed with the header. NoKey
	// and NotTrusted are successes with the verdict preserved; the policy
	// decision about unverifiable packages belongs to the caller.
	OK bool
}

// Mapper turns Results into Dispositions. The stash suppresses repeat
// warnings: the first sighting of an unknown or untrusted key logs at
// WARNING, later sightings of the same key id drop to DEBUG.
type Mapper struct {
	stash *keystash.Stash
}

// NewMapper builds a Mapper around stash. A nil stash means every NoKey /
// NotTrusted occurrence warns.
func NewMapper(stash *keystash.Stash) *Mapper {
	return &Mapper{stash: stash}
}

// Map converts one read Result into its disposition.
func (m *Mapper) Map(res Result) Disposition {
	d := Disposition{Verdict: res.Verdict, Message: res.Message}

	switch res.Verdict {
	case sig.VerdictOk:
		d.Level = LevelDebug
		d.OK = true
	case sig.VerdictNoKey, sig.VerdictNotTrusted:
		d.Level = LevelWarning
		if m.stash != nil && m.stash.Observe(res.KeyID) {
			d.Level = LevelDebug
		}
		d.OK = true
	case sig.VerdictNotFound:
		// No message probably means a manifest; nothing worth logging.
		d.Level = LevelDebug
		if res.Message != "" {
			d.Level = LevelWarning
		}
	case sig.VerdictFail:
		d.Level = LevelError
	default:
		d.Level = LevelError
	}

	return d
}
