package fixtures

// RecordingRegistry captures command handlers handed to a registry.
type RecordingRegistry struct {
	Handlers []any
	err      error
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{
		Handlers: make([]any, 0),
	}
}

// Fail configures the recorder to return err on registration.
func (r *RecordingRegistry) Fail(err error) {
	r.err = err
}

// RegisterCommand records the handler.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}
