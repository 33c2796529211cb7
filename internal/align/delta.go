package align

// ApplyDeltas sets DeltaMs on every slot: populated slots get their duration
// minus the duration of the row's first populated slot, placeholders get 0.
func ApplyDeltas(m *Matrix) {
	for _, row := range m.Rows {
		first := row.First()
		for k := range row.Slots {
			s := &row.Slots[k]
			if s.Empty() || first == nil {
				s.DeltaMs = 0
				continue
			}
			s.DeltaMs = s.Record.Payload.DurationMs - first.Payload.DurationMs
		}
	}
}
