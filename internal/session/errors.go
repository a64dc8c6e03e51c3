package session

import "errors"

// CaptureStartError marks a failure to acquire a capture handle. The session
// is back in Idle when this is returned.
type CaptureStartError struct {
	Err error
}

func (e *CaptureStartError) Error() string {
	if e == nil || e.Err == nil {
		return "capture start failed"
	}
	return "capture start failed: " + e.Err.Error()
}

func (e *CaptureStartError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CaptureStopError marks a failure to finalize a capture. The session is back
// in Idle and no recording was produced.
type CaptureStopError struct {
	Err error
}

func (e *CaptureStopError) Error() string {
	if e == nil || e.Err == nil {
		return "capture stop failed"
	}
	return "capture stop failed: " + e.Err.Error()
}

func (e *CaptureStopError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsCaptureStartError(err error) bool {
	var target *CaptureStartError
	return errors.As(err, &target)
}

func IsCaptureStopError(err error) bool {
	var target *CaptureStopError
	return errors.As(err, &target)
}
