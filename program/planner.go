package program

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Planner holds the Program currently being edited and is the surface the
// presentation layer talks to.
type Planner struct {
	factory *Factory

	mu      sync.RWMutex
	program *Program
}

// NewPlanner creates a Planner with nothing loaded.
func NewPlanner(factory *Factory) *Planner {
	return &Planner{factory: factory}
}

// Load builds a Program from doc and makes it current. On error the
// previously loaded Program, if any, stays in place.
func (p *Planner) Load(ctx context.Context, doc ProgramDocument) error {
	program, err := p.factory.BuildProgram(ctx, doc)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.program = program
	p.mu.Unlock()
	return nil
}

// LoadJSON decodes data as a ProgramDocument and loads it.
func (p *Planner) LoadJSON(ctx context.Context, data []byte) error {
	var doc ProgramDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: decode program document: %v", ErrInvalidArgument, err)
	}
	return p.Load(ctx, doc)
}

// Program returns the current Program, or nil before the first Load.
func (p *Planner) Program() *Program {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.program
}

// SetProgram replaces the current Program with one built by the caller.
func (p *Planner) SetProgram(program *Program) {
	p.mu.Lock()
	p.program = program
	p.mu.Unlock()
}

// ToDocument snapshots the current Program. Background course lookups started
// after the snapshot are not reflected in it.
func (p *Planner) ToDocument() (ProgramDocument, error) {
	program := p.Program()
	if program == nil {
		return ProgramDocument{}, ErrNoProgram
	}
	return p.factory.BuildDocument(program)
}

// ToJSON snapshots the current Program as indented JSON.
func (p *Planner) ToJSON() ([]byte, error) {
	doc, err := p.ToDocument()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}
