package parser

import (
	"github.com/pacer/smartscript/internal/script/lexer"
)

// scopeStack tracks the containers new nodes are attached to. The document
// root sits at index 0 and is never popped; every other entry is an open
// for-loop waiting for its END tag.
type scopeStack struct {
	opened []scope
}

func newScopeStack() *scopeStack {
	stack := make([]scope, 0, 4)
	stack = append(stack, NewDocumentNode())

	return &scopeStack{opened: stack}
}

func (s *scopeStack) root() *DocumentNode {
	if len(s.opened) == 0 {
		panic("scope stack lost its document root")
	}

	return s.opened[0].(*DocumentNode)
}

func (s *scopeStack) current() scope {
	if len(s.opened) == 0 {
		panic("no scope available to hold the node. The document root must always be on the stack")
	}

	return s.opened[len(s.opened)-1]
}

func (s *scopeStack) height() int {
	return len(s.opened)
}

// attach adds node to the innermost open container.
func (s *scopeStack) attach(node Node) {
	s.current().appendChild(node)
}

// open attaches loop to the innermost container and makes it the new one.
func (s *scopeStack) open(loop *ForLoopNode) {
	s.attach(loop)
	s.opened = append(s.opened, loop)
}

// innermost returns the innermost open for-loop, or nil when only the root
// is left.
func (s *scopeStack) innermost() *ForLoopNode {
	if s.height() <= 1 {
		return nil
	}

	return s.current().(*ForLoopNode)
}

// close pops the innermost for-loop and stretches its range up to end. It
// reports false when no loop is open.
func (s *scopeStack) close(end lexer.Position) (*ForLoopNode, bool) {
	loop := s.innermost()
	if loop == nil {
		return nil, false
	}

	loop.rng.End = end
	s.opened = s.opened[:len(s.opened)-1]

	return loop, true
}
