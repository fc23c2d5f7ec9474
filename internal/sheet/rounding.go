package sheet

import (
	"time"

	"github.com/xolan/tsheet/internal/timeutil"
)

// Stage tracks a run of increment/decrement presses on one entry.
//
// The first press snaps the start to the 5-minute grid, the second to the
// 15-minute grid, and further presses move by 15 minutes. Reversing
// direction starts over from the 5-minute snap.
type Stage struct {
	Stage   int
	LastDir int
	// At is when the last press happened. Stages do not expire.
	At time.Time
}

// Step applies one press in direction dir (sign only) to current and returns
// the new start in [0, 1440). The stage state advances accordingly.
func (s *Stage) Step(current, dir int, at time.Time) int {
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	if s.LastDir != dir {
		s.Stage = 0
	}

	var next int
	switch s.Stage {
	case 0:
		next = snap(current, dir, 5)
		s.Stage = 1
	case 1:
		next = snap(current, dir, 15)
		s.Stage = 2
	default:
		next = current + dir*15
	}

	s.LastDir = dir
	s.At = at
	return timeutil.Wrap(next)
}

func snap(m, dir, step int) int {
	if dir > 0 {
		return timeutil.SnapUp(m, step)
	}
	return timeutil.SnapDown(m, step)
}
