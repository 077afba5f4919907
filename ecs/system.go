package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems implement this interface and keep whatever state they
// need between frames, typically one or more Filter fields.
type System interface {
	Execute(frame *UpdateFrame)
}

// Initializer is implemented by systems that bind to the storage when they are
// registered with a Scheduler.
type Initializer interface {
	Init(storage *Storage)
}

// Shutdowner is implemented by systems that release their bindings when the
// Scheduler shuts down.
type Shutdowner interface {
	Shutdown()
}
