package rigidbody

import (
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/fields"
	"github.com/plus3/bodysync/internal/log"
	"github.com/plus3/bodysync/physics"
)

type Options struct {
	Logger *log.Logger
	// Strict makes the OutputSystem panic on stale body handles.
	Strict bool
}

// Pipeline holds one cycle's systems: input, step, output.
type Pipeline struct {
	Input  *InputSystem
	Step   *StepSystem
	Output *OutputSystem
}

func NewPipeline(world physics.World, opts Options) *Pipeline {
	output := NewOutputSystem(world, opts.Logger)
	output.Strict = opts.Strict
	return &Pipeline{
		Input:  NewInputSystem(world, opts.Logger),
		Step:   NewStepSystem(world),
		Output: output,
	}
}

// Systems returns the systems in the order they must run.
func (p *Pipeline) Systems() []ecs.System {
	return []ecs.System{p.Input, p.Step, p.Output}
}

// Register adds the systems to scheduler in cycle order.
func (p *Pipeline) Register(scheduler *ecs.Scheduler) {
	for _, system := range p.Systems() {
		scheduler.Register(system)
	}
}

// NewFieldTable returns accessors for the property records of this package.
func NewFieldTable() *fields.Table {
	table := fields.NewTable()
	fields.Register[StaticProperties](table)
	fields.Register[DynamicProperties](table)
	fields.Register[Transform](table)
	return table
}
