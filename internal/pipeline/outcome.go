package pipeline

// Stage identifies one discrete step of the publish pipeline.
type Stage string

const (
	StageConfig     Stage = "config"
	StageGeneration Stage = "generation"
	StageSynthesis  Stage = "synthesis"
	StageStorage    Stage = "storage"
	StageFacebook   Stage = "facebook"
	StageInstagram  Stage = "instagram"
)

// StageError tags a collaborator failure with the stage it occurred in.
// Raw collaborator errors never cross the orchestrator boundary untagged.
type StageError struct {
	Stage  Stage
	Detail string
	Err    error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Detail
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Outcome is the single result of one orchestration run, constructed
// exactly once per run.
type Outcome struct {
	Success bool
	Topic   string
	Err     *StageError
}

// ErrorDetail returns the "<stage>: <detail>" string for failed runs,
// or "" on success.
func (o Outcome) ErrorDetail() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
