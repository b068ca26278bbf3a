package aggregates

// SaveOutcome tags the result of an insert attempt so parents can branch on
// it during a cascading save instead of inspecting an error.
type SaveOutcome int

const (
	OutcomeUnknown SaveOutcome = iota
	// Inserted means a new row was written.
	Inserted
	// AlreadyExisted means a row with the same id was present and nothing was written.
	AlreadyExisted
)

func (o SaveOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyExisted:
		return "already_existed"
	default:
		return "unknown"
	}
}
