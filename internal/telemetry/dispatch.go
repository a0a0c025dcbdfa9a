package telemetry

// Listener is called with every committed snapshot
type Listener func(Snapshot)

// Dispatcher delivers a committed snapshot to the registered listeners.
// The store commits first and only then hands the snapshot to the dispatcher.
type Dispatcher interface {
	Dispatch(listeners []Listener, snap Snapshot)
}

// SyncDispatcher calls every listener in order on the committing goroutine.
// Each listener gets its own copy of the snapshot.
type SyncDispatcher struct{}

// Dispatch implements Dispatcher
func (SyncDispatcher) Dispatch(listeners []Listener, snap Snapshot) {
	for _, l := range listeners {
		l(snap.Clone())
	}
}

// DispatcherFunc adapts a function to the Dispatcher interface
type DispatcherFunc func(listeners []Listener, snap Snapshot)

// Dispatch implements Dispatcher
func (f DispatcherFunc) Dispatch(listeners []Listener, snap Snapshot) {
	f(listeners, snap)
}
