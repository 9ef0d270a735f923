package domain

// ParseOutcome is the state of a streaming row parse.
type ParseOutcome string

const (
	ParseIdle         ParseOutcome = "idle"
	ParseStreaming    ParseOutcome = "streaming"
	ParseCompleted    ParseOutcome = "completed"
	ParseCapped       ParseOutcome = "row_cap_reached"
	ParseEarlyStopped ParseOutcome = "early_stopped"
	ParseFailed       ParseOutcome = "failed"
)

// Terminal reports whether no more rows will be produced.
func (o ParseOutcome) Terminal() bool {
	switch o {
	case ParseCompleted, ParseCapped, ParseEarlyStopped, ParseFailed:
		return true
	}
	return false
}

// ParseStats is reported by the row parser in every terminal state.
type ParseStats struct {
	RowsSeen int
	Outcome  ParseOutcome
}
