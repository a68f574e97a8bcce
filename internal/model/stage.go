package model

// Stage is the lifecycle state of one raw batch in a pipeline run.
type Stage string

const (
	StageIngested    Stage = "ingested"
	StageValidated   Stage = "validated"
	StageTransformed Stage = "transformed"
	StageRejected    Stage = "rejected"
)

// Terminal reports whether no further processing happens after s.
func (s Stage) Terminal() bool {
	return s == StageTransformed || s == StageRejected
}
