package compiler

import (
	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/doc"
	"github.com/roach88/mongoexpr/internal/visit"
)

// updateBuilder accumulates field updates grouped by update operator.
// Groups appear in the order they were first populated; fields keep
// first-seen order within their group.
type updateBuilder struct {
	doc     *doc.Document
	written map[string]string // field path -> group
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{doc: &doc.Document{}, written: make(map[string]string)}
}

// set records field under group. A field may be written once per update.
func (b *updateBuilder) set(group, field string, value doc.Value) error {
	if prev, ok := b.written[field]; ok {
		return newError(ErrUnsupportedSequenceMember, field,
			"conflicting update of field %q in %s and %s", field, prev, group)
	}
	b.written[field] = group

	g, ok := b.doc.Get(group)
	if !ok {
		g = &doc.Document{}
		b.doc.Set(group, g)
	}
	g.(*doc.Document).Set(field, value)
	return nil
}

// merge adds every field of an update document.
func (b *updateBuilder) merge(u *doc.Document) error {
	for _, group := range u.Elements() {
		fields, ok := group.Value.(*doc.Document)
		if !ok {
			continue
		}
		for _, f := range fields.Elements() {
			if err := b.set(group.Key, f.Key, f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *updateBuilder) build() Update {
	return Update{Doc: b.doc}
}

// singleUpdate is the update for one standalone assignment, delete or
// increment.
func singleUpdate(group, field string, value doc.Value) (Fragment, error) {
	b := newUpdateBuilder()
	if err := b.set(group, field, value); err != nil {
		return nil, err
	}
	return b.build(), nil
}

// sequenceLeaves flattens a comma chain into its members in source order.
func sequenceLeaves(n *ast.SequenceExpression) []ast.Node {
	var leaves []ast.Node
	stack := []ast.Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s, ok := top.(*ast.SequenceExpression); ok {
			stack = append(stack, s.Right, s.Left)
			continue
		}
		leaves = append(leaves, top)
	}
	return leaves
}

// checkSequenceMember accepts delete, increment and assignment leaves.
func checkSequenceMember(n ast.Node) error {
	switch m := n.(type) {
	case *ast.UnaryExpression:
		if m.Op == ast.UnaryDelete || m.Op == ast.UnaryIncrement {
			return nil
		}
		return newError(ErrUnsupportedSequenceMember, m.Op.String(),
			"unary %q is not supported in a sequence", m.Op.String())
	case *ast.AssignmentExpression:
		return nil
	case nil:
		return newError(ErrUnsupportedSequenceMember, ast.KindInvalid.String(),
			"empty sequence member")
	default:
		return newError(ErrUnsupportedSequenceMember, n.Kind().String(),
			"%s is not supported in a sequence", n.Kind())
	}
}

// compileSequence groups a comma chain of updates into one update document.
func compileSequence(n *ast.SequenceExpression, walk visit.Func[Fragment]) (Fragment, error) {
	b := newUpdateBuilder()
	for _, leaf := range sequenceLeaves(n) {
		if err := checkSequenceMember(leaf); err != nil {
			return nil, err
		}
		f, err := walk(leaf)
		if err != nil {
			return nil, err
		}
		u, ok := f.(Update)
		if !ok {
			return nil, newError(ErrUnsupportedSequenceMember, leaf.Kind().String(),
				"%s is not supported in a sequence", describe(f))
		}
		if err := b.merge(u.Doc); err != nil {
			return nil, err
		}
	}
	return b.build(), nil
}
