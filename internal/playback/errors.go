package playback

import "errors"

// LoadError marks a rejected or failed playback request. Controller state is
// unchanged (rejection) or fully reset (engine failure) when this is returned.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "playback load failed"
	}
	if e.Err != nil {
		return "playback load failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "playback load failed: " + e.Reason
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsLoadError(err error) bool {
	var target *LoadError
	return errors.As(err, &target)
}
