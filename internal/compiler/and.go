package compiler

import (
	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/doc"
	"github.com/roach88/mongoexpr/internal/visit"
)

// andLeaves collects the operands of a && chain in source order, descending
// through every nested && regardless of grouping.
func andLeaves(n *ast.BinaryExpression) []ast.Node {
	var leaves []ast.Node
	stack := []ast.Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b, ok := top.(*ast.BinaryExpression); ok && b.Operator == ast.OpAnd {
			// Right first so Left is popped first.
			stack = append(stack, b.Right, b.Left)
			continue
		}
		leaves = append(leaves, top)
	}
	return leaves
}

// flattenAnd compiles a && chain into one document.
//
// When no top-level key appears in more than one leaf, the leaves' pairs are
// merged into a single document in leaf order. Otherwise the result is
// {$and: [leaf, ...]} with every leaf kept whole, in source order.
func flattenAnd(n *ast.BinaryExpression, walk visit.Func[Fragment]) (Fragment, error) {
	leaves := andLeaves(n)
	docs := make([]*doc.Document, 0, len(leaves))
	seen := make(map[string]bool)
	collision := false

	for _, leaf := range leaves {
		f, err := walk(leaf)
		if err != nil {
			return nil, err
		}
		d, err := conditionOperand(ast.OpAnd, f)
		if err != nil {
			return nil, err
		}
		for _, k := range d.Keys() {
			if seen[k] {
				collision = true
			}
			seen[k] = true
		}
		docs = append(docs, d)
	}

	if collision {
		all := make(doc.Array, len(docs))
		for i, d := range docs {
			all[i] = d
		}
		return Condition{Doc: doc.NewDocument(doc.E(targetAnd, all))}, nil
	}

	merged := &doc.Document{}
	for _, d := range docs {
		for _, e := range d.Elements() {
			merged.Set(e.Key, e.Value)
		}
	}
	return Condition{Doc: merged}, nil
}
