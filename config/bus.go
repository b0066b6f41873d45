package config

// BusConfig defines configuration for a Bus instance.
type BusConfig struct {
	// Name identifies the bus in errors and observability events.
	Name string `json:"name" yaml:"name" toml:"name"`

	// FailMessage prefixes the aggregate error reported when no actor on the
	// bus can handle an action.
	FailMessage string `json:"fail_message" yaml:"fail_message" toml:"fail_message"`

	// Observer names the observability.Observer used for dispatch events
	// ("noop", "slog", or any registered name).
	Observer string `json:"observer" yaml:"observer" toml:"observer"`
}

// DefaultBusConfig returns a BusConfig with the given name and defaults.
func DefaultBusConfig(name string) BusConfig {
	return BusConfig{
		Name:        name,
		FailMessage: "none of the actors on bus " + name + " are able to handle the action",
		Observer:    "noop",
	}
}

func (c *BusConfig) Merge(source *BusConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.FailMessage != "" {
		c.FailMessage = source.FailMessage
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
