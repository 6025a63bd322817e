package domain

// Light is a device as reported by the lighting API.
type Light struct {
	ID        string
	Label     string
	Group     string
	Connected bool
	Power     Power
}

// Result is the per-device outcome of a state change.
type Result struct {
	ID     string
	Label  string
	Status string
}

// StateChange carries the attributes sent with a set-state call. Zero values
// are left out of the request.
type StateChange struct {
	Power      Power
	Brightness *float64
	Color      string
}

func Float(v float64) *float64 {
	return &v
}
