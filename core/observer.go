package core

// ActionObserver is notified of every run on the bus it is registered to,
// regardless of which mediator invoked the run or which actor won.
//
// OnRun is called synchronously when the run starts. The output future may
// still be pending; observers that need the result attach to it with
// Future.OnComplete or Future.Await. An observer must never influence the
// run.
type ActionObserver[A Action, O any] interface {
	OnRun(actor Named, action A, output *Future[O])
}

// ObserverFunc adapts a function to ActionObserver.
type ObserverFunc[A Action, O any] func(actor Named, action A, output *Future[O])

func (f ObserverFunc[A, O]) OnRun(actor Named, action A, output *Future[O]) {
	f(actor, action, output)
}
