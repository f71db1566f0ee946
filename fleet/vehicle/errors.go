package vehicle

import "errors"

// ErrInvalidArgument is returned when construction input is rejected
var ErrInvalidArgument = errors.New("invalid argument")

// EngineFault identifies why an engine transition was rejected
type EngineFault int

const (
	AlreadyRunning EngineFault = iota + 1
	AlreadyStopped
)

func (f EngineFault) String() string {
	switch f {
	case AlreadyRunning:
		return "already_running"
	case AlreadyStopped:
		return "already_stopped"
	default:
		return "unknown"
	}
}

// EngineError reports an engine transition that does not apply to the current state
type EngineError struct {
	Kind EngineFault
}

func (e *EngineError) Error() string {
	switch e.Kind {
	case AlreadyRunning:
		return "engine is already running"
	case AlreadyStopped:
		return "engine is already stopped"
	default:
		return "engine fault"
	}
}

// Is matches another EngineError of the same kind; a zero Kind matches any engine error
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return t.Kind == 0 || t.Kind == e.Kind
}

// FuelFault identifies why a fuel-related operation was rejected
type FuelFault int

const (
	TankFull FuelFault = iota + 1
	InsufficientFuel
)

func (f FuelFault) String() string {
	switch f {
	case TankFull:
		return "tank_full"
	case InsufficientFuel:
		return "insufficient_fuel"
	default:
		return "unknown"
	}
}

// FuelError reports a fuel level that does not allow the requested operation
type FuelError struct {
	Kind FuelFault
}

func (e *FuelError) Error() string {
	switch e.Kind {
	case TankFull:
		return "fuel tank is already full"
	case InsufficientFuel:
		return "insufficient fuel to start engine, please refuel"
	default:
		return "fuel fault"
	}
}

// Is matches another FuelError of the same kind; a zero Kind matches any fuel error
func (e *FuelError) Is(target error) bool {
	t, ok := target.(*FuelError)
	if !ok {
		return false
	}
	return t.Kind == 0 || t.Kind == e.Kind
}

var (
	ErrAlreadyRunning   = &EngineError{Kind: AlreadyRunning}
	ErrAlreadyStopped   = &EngineError{Kind: AlreadyStopped}
	ErrTankFull         = &FuelError{Kind: TankFull}
	ErrInsufficientFuel = &FuelError{Kind: InsufficientFuel}
)

// IsVehicleError reports whether err is a rejected engine or fuel transition
func IsVehicleError(err error) bool {
	return errors.Is(err, &EngineError{}) || errors.Is(err, &FuelError{})
}

// FaultCode returns a machine-friendly code for engine and fuel errors, or "" otherwise
func FaultCode(err error) string {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Kind.String()
	}
	var fuelErr *FuelError
	if errors.As(err, &fuelErr) {
		return fuelErr.Kind.String()
	}
	return ""
}
