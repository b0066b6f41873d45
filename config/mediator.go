package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks a malformed mediator or bus configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Strategy is the closed set of mediation strategies.
type Strategy string

const (
	StrategyNumber   Strategy = "number"
	StrategyFirst    Strategy = "first"
	StrategyRace     Strategy = "race"
	StrategyPipeline Strategy = "pipeline"
	StrategyUnion    Strategy = "union"
)

// NumberType selects the extremum a number mediator looks for.
type NumberType string

const (
	NumberMin NumberType = "min"
	NumberMax NumberType = "max"
)

// Order selects how a pipeline mediator sorts its stages.
type Order string

const (
	OrderNone       Order = "none"
	OrderIncreasing Order = "increasing"
	OrderDecreasing Order = "decreasing"
)

// MediatorConfig defines configuration for any mediator strategy.
// Fields that do not apply to the selected strategy are ignored.
type MediatorConfig struct {
	Name string `json:"name" yaml:"name" toml:"name"`

	// Bus names the bus the mediator binds to when wired from a file.
	Bus string `json:"bus" yaml:"bus" toml:"bus"`

	Strategy Strategy `json:"strategy" yaml:"strategy" toml:"strategy"`

	// Field names the TestMeta field holding the value to compare or order
	// by. For number it is required; for pipeline an empty Field means the
	// TestMeta itself is the order value.
	Field string `json:"field" yaml:"field" toml:"field"`

	// Type is min or max (number strategy).
	Type NumberType `json:"type" yaml:"type" toml:"type"`

	// Order is none, increasing or decreasing (pipeline strategy).
	Order Order `json:"order" yaml:"order" toml:"order"`

	// IgnoreFailures drops actors whose test failed from consideration
	// instead of reporting them. It never hides failures when nothing passed.
	IgnoreFailures bool `json:"ignore_failures" yaml:"ignore_failures" toml:"ignore_failures"`

	// Observer names the observability.Observer for mediation events.
	Observer string `json:"observer" yaml:"observer" toml:"observer"`
}

// DefaultMediatorConfig returns a first-success mediator configuration.
func DefaultMediatorConfig(name string) MediatorConfig {
	return MediatorConfig{
		Name:     name,
		Strategy: StrategyFirst,
		Type:     NumberMin,
		Order:    OrderNone,
		Observer: "noop",
	}
}

func (c *MediatorConfig) Merge(source *MediatorConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Bus != "" {
		c.Bus = source.Bus
	}

	if source.Strategy != "" {
		c.Strategy = source.Strategy
	}

	if source.Field != "" {
		c.Field = source.Field
	}

	if source.Type != "" {
		c.Type = source.Type
	}

	if source.Order != "" {
		c.Order = source.Order
	}

	if source.IgnoreFailures {
		c.IgnoreFailures = source.IgnoreFailures
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// Validate checks the strategy and its strategy-specific parameters.
func (c *MediatorConfig) Validate() error {
	switch c.Strategy {
	case StrategyNumber:
		if c.Type != NumberMin && c.Type != NumberMax {
			return fmt.Errorf(
				"%w: no valid \"type\" value was given, must be either 'min' or 'max', but got: %s",
				ErrInvalidConfig, c.Type,
			)
		}
		if c.Field == "" {
			return fmt.Errorf("%w: number mediator %s requires a field", ErrInvalidConfig, c.Name)
		}
	case StrategyPipeline:
		switch c.Order {
		case "", OrderNone, OrderIncreasing, OrderDecreasing:
		default:
			return fmt.Errorf(
				"%w: no valid \"order\" value was given, must be 'none', 'increasing' or 'decreasing', but got: %s",
				ErrInvalidConfig, c.Order,
			)
		}
	case StrategyFirst, StrategyRace, StrategyUnion:
	default:
		return fmt.Errorf("%w: unknown mediator strategy: %q", ErrInvalidConfig, c.Strategy)
	}
	return nil
}
