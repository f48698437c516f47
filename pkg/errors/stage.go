package errors

import "fmt"

// Stage names a step of the translation pipeline.
type Stage string

const (
	StageNone    Stage = ""
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageCompile Stage = "compile"
	StageInvoke  Stage = "invoke"
)

// StageError records the pipeline stage that produced Err.
type StageError struct {
	Stage Stage
	API   string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.API != "" {
		return fmt.Sprintf("%s [%s]: %v", e.Stage, e.API, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// AtStage tags err with a stage. A nil err stays nil and an error that is
// already tagged keeps its original stage.
func AtStage(err error, stage Stage, api string) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, API: api, Err: err}
}

// StageOf returns the stage err was tagged with, or StageNone.
func StageOf(err error) Stage {
	var se *StageError
	if As(err, &se) {
		return se.Stage
	}
	return StageNone
}
