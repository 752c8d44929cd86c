package step

import (
	"context"

	"github.com/liumiaowilson/atom/state"
)

// Composite is an ordered sequence of child steps executed depth-first,
// left to right. It is finished iff every child is finished; an empty
// composite is finished immediately.
//
// Execute always resumes at the first unfinished child and advances it by
// exactly one unit, never two children in one call and never a finished
// child. Resumability falls out of each child's own finished flag; the
// composite keeps no cursor of its own.
type Composite struct {
	children []Step
}

// NewComposite creates a composite over the given children.
func NewComposite(children ...Step) *Composite {
	return &Composite{children: children}
}

// Add appends children to the sequence. Valid only between execution
// cycles; concurrent mutation during an active Execute is the caller's
// responsibility to avoid.
func (c *Composite) Add(children ...Step) *Composite {
	c.children = append(c.children, children...)
	return c
}

// Len returns the number of children.
func (c *Composite) Len() int {
	return len(c.children)
}

// IsFinished reports whether every child is finished.
func (c *Composite) IsFinished(s *state.State) bool {
	for _, child := range c.children {
		if !child.IsFinished(s) {
			return false
		}
	}
	return true
}

// Execute advances the leftmost unfinished child by one unit. Executing a
// finished composite is a no-op.
func (c *Composite) Execute(ctx context.Context, s *state.State) error {
	for _, child := range c.children {
		if child.IsFinished(s) {
			continue
		}
		return child.Execute(ctx, s)
	}
	return nil
}
