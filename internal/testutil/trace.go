package testutil

// FixedTraceID returns a trace id generator that always yields id, so
// command output can be compared byte for byte.
//
// If id is empty, the generator returns "test-trace-default".
func FixedTraceID(id string) func() string {
	if id == "" {
		id = "test-trace-default"
	}
	return func() string { return id }
}
