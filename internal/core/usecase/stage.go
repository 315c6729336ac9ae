package usecase

// stageResult tags the outcome of a best-effort stage so the orchestrator can
// branch on success or failure explicitly instead of letting a stage error
// escape the pipeline.
type stageResult[T any] struct {
	Value T
	Err   error
}

func (r stageResult[T]) OK() bool { return r.Err == nil }

// softly runs a best-effort stage body and captures its outcome. The caller
// decides what event to record and what safe default to continue with.
func softly[T any](fn func() (T, error)) stageResult[T] {
	value, err := fn()
	return stageResult[T]{Value: value, Err: err}
}
