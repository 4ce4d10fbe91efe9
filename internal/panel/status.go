package panel

// Status tracks the in-flight requests of one panel.
type Status struct {
	Loading bool
	Saving  bool
}

// Busy reports whether any request is in flight.
func (s Status) Busy() bool {
	return s.Loading || s.Saving
}

func (s Status) beginLoad() Status {
	s.Loading = true
	return s
}

func (s Status) endLoad() Status {
	s.Loading = false
	return s
}

func (s Status) beginSave() Status {
	s.Saving = true
	return s
}

func (s Status) endSave() Status {
	s.Saving = false
	return s
}
