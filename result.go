package procedure

// Result is the tagged outcome of one procedure invocation. Exactly one of
// Data and Err is meaningful: Data when OK is true, Err otherwise.
type Result[T, E any] struct {
	Data T
	Err  E
	OK   bool
}

// Success builds the success variant.
func Success[T, E any](data T) Result[T, E] {
	return Result[T, E]{Data: data, OK: true}
}

// Failure builds the failure variant.
func Failure[T, E any](err E) Result[T, E] {
	return Result[T, E]{Err: err}
}

// Failed reports whether the invocation produced an error.
func (r Result[T, E]) Failed() bool {
	return !r.OK
}

// Unpack returns the data, the error, and the success flag in one read,
// for callers that prefer tuple-style handling.
func (r Result[T, E]) Unpack() (T, E, bool) {
	return r.Data, r.Err, r.OK
}
