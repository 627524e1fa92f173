package scene

// Snapshot is a point-in-time copy of every rotation plane's angle, keyed by
// plane name. It lets a preview pass run without perturbing the main
// recording: capture once after warm-up, restore once before recording
// begins, then discard.
type Snapshot map[string]float64

// Snapshot captures the current angle of every rotation plane.
func (s *State) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.planes))
	for _, p := range s.planes {
		snap[p.Name] = p.Angle
	}
	return snap
}

// Restore applies a previously captured snapshot. Planes absent from the
// snapshot keep their current angle.
func (s *State) Restore(snap Snapshot) {
	if snap == nil {
		return
	}
	for i := range s.planes {
		if angle, ok := snap[s.planes[i].Name]; ok {
			s.planes[i].Angle = angle
		}
	}
}
