package reload

// Status is the host's position in the reload cycle.
type Status int

const (
	// Unloaded means no module is resident, either before the first load
	// or after a failed swap.
	Unloaded Status = iota

	// Loaded means a module is resident and no build is running.
	Loaded

	// Compiling means a module is resident and a build is running.
	Compiling

	// Reloading is reported while a swap is in progress.
	Reloading
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Compiling:
		return "compiling"
	case Reloading:
		return "reloading"
	default:
		return "unknown"
	}
}
