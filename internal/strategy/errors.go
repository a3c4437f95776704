package strategy

import "errors"

var (
	// ErrUnknownStrategy is returned by Registry.Build for unregistered names.
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrInvalidOptions is returned when a strategy factory rejects its options.
	ErrInvalidOptions = errors.New("invalid strategy options")
	// ErrNoBody is returned when a strategy needs a method body and the
	// method is abstract or native.
	ErrNoBody = errors.New("method has no body")
	// ErrForbiddenFlags is returned when an access flag change would turn a
	// method with a body into one without, or the reverse.
	ErrForbiddenFlags = errors.New("forbidden access flag change")
	// ErrNoClass is returned when a strategy needs the declaring class and
	// was called without one.
	ErrNoClass = errors.New("declaring class required")
	// ErrNoSuperConstructor is returned when a stubbed constructor has no
	// accessible no-argument superclass constructor to call.
	ErrNoSuperConstructor = errors.New("superclass has no accessible no-arg constructor")
)
