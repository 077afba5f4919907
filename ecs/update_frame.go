package ecs

// UpdateFrame is handed to every system during one scheduler pass.
type UpdateFrame struct {
	// Tick counts scheduler passes, starting at 1.
	Tick      uint64
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}
