// Package mediator turns the set of actors that passed their test on a bus
// into a single outcome.
//
// Every strategy starts the same way: the bus tests all registered actors
// concurrently and the replies are partitioned into passing and failing
// sets. The strategies differ in what they do with the passing set.
//
// # Selecting strategies
//
// New builds a Selector for the strategies that pick exactly one actor and
// run it:
//
//   - number: the actor whose TestMeta field holds the minimum or maximum
//     numeric value. Ties resolve to the earliest registered actor. When no
//     passing actor exposes a comparable value, the first registered
//     passing actor is chosen.
//   - first: the first passing actor in registration order.
//   - race: the first actor whose test passes, by completion time.
//
// # Combining strategies
//
// NewPipeline chains every passing actor, feeding each output into the next
// actor as its action and threading the context forward. Stages may be
// ordered by a numeric TestMeta value.
//
// NewUnion runs every passing actor concurrently and folds their outputs
// with a caller-supplied Combiner.
//
// Example:
//
//	cfg := config.DefaultMediatorConfig("rank")
//	cfg.Strategy = config.StrategyNumber
//	cfg.Field = "priority"
//	cfg.Type = config.NumberMax
//
//	m, err := mediator.New(bus, cfg)
//	if err != nil {
//	    return err
//	}
//	output, err := m.Mediate(ctx, action)
//
// Errors returned by an actor's Run reach the caller of Mediate unchanged.
package mediator
