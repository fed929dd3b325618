package ast

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// JSON tree format. Every node is an object with a "kind" member holding
// the Kind name; the other members depend on the kind:
//
//	{"kind":"Program","body":[...]}
//	{"kind":"Statement","expression":{...}}
//	{"kind":"StringLiteral","value":"text"}
//	{"kind":"NumberLiteral","literal":"1.50"}
//	{"kind":"BooleanLiteral","value":true}
//	{"kind":"NullLiteral"}
//	{"kind":"Identifier","name":"a"}
//	{"kind":"MemberAccess","object":{...},"property":"b"}
//	{"kind":"BinaryExpression","operator":"==","left":{...},"right":{...}}
//	{"kind":"UnaryExpression","operator":"delete","operand":{...}}
//	{"kind":"ArrayLiteral","elements":[...]}
//	{"kind":"CallExpression","callee":{MemberAccess},"arguments":[...]}
//	{"kind":"AssignmentExpression","operator":"+=","target":{...},"value":{...}}
//	{"kind":"SequenceExpression","left":{...},"right":{...}}

// DecodeJSON decodes a tree from its JSON form.
func DecodeJSON(data []byte) (Node, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return decodeNode(v, "$")
}

// decodeNode decodes the node at path (a JSONPath-like locator used only in
// error messages).
func decodeNode(v *fastjson.Value, path string) (Node, error) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%s: expected a node object", path)
	}

	kind := ParseKind(string(v.GetStringBytes("kind")))
	switch kind {
	case KindProgram:
		body, err := decodeList(v, "body", path)
		if err != nil {
			return nil, err
		}
		return &Program{Body: body}, nil

	case KindStatement:
		expr, err := decodeChild(v, "expression", path)
		if err != nil {
			return nil, err
		}
		return &Statement{Expr: expr}, nil

	case KindString:
		s, err := decodeString(v, "value", path)
		if err != nil {
			return nil, err
		}
		return &StringLiteral{Value: s}, nil

	case KindNumber:
		lit, err := decodeString(v, "literal", path)
		if err != nil {
			return nil, err
		}
		return &NumberLiteral{Literal: lit}, nil

	case KindBoolean:
		f, err := member(v, "value", path)
		if err != nil {
			return nil, err
		}
		b, err := f.Bool()
		if err != nil {
			return nil, fmt.Errorf("%s.value: %w", path, err)
		}
		return &BooleanLiteral{Value: b}, nil

	case KindNull:
		return &NullLiteral{}, nil

	case KindIdentifier:
		name, err := decodeString(v, "name", path)
		if err != nil {
			return nil, err
		}
		return &Identifier{Name: name}, nil

	case KindMember:
		return decodeMember(v, path)

	case KindBinary:
		op, err := decodeString(v, "operator", path)
		if err != nil {
			return nil, err
		}
		left, err := decodeChild(v, "left", path)
		if err != nil {
			return nil, err
		}
		right, err := decodeChild(v, "right", path)
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Operator: op, Left: left, Right: right}, nil

	case KindUnary:
		tok, err := decodeString(v, "operator", path)
		if err != nil {
			return nil, err
		}
		op, ok := ParseUnaryKind(tok)
		if !ok {
			return nil, fmt.Errorf("%s.operator: unknown unary operator %q", path, tok)
		}
		operand, err := decodeChild(v, "operand", path)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Op: op, Operand: operand}, nil

	case KindArray:
		elems, err := decodeList(v, "elements", path)
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Elements: elems}, nil

	case KindCall:
		callee, err := decodeMember(v.Get("callee"), path+".callee")
		if err != nil {
			return nil, err
		}
		args, err := decodeList(v, "arguments", path)
		if err != nil {
			return nil, err
		}
		return &CallExpression{Callee: callee, Arguments: args}, nil

	case KindAssign:
		op, err := decodeString(v, "operator", path)
		if err != nil {
			return nil, err
		}
		target, err := decodeChild(v, "target", path)
		if err != nil {
			return nil, err
		}
		value, err := decodeChild(v, "value", path)
		if err != nil {
			return nil, err
		}
		return &AssignmentExpression{Operator: op, Target: target, Value: value}, nil

	case KindSequence:
		left, err := decodeChild(v, "left", path)
		if err != nil {
			return nil, err
		}
		right, err := decodeChild(v, "right", path)
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{Left: left, Right: right}, nil

	default:
		return nil, fmt.Errorf("%s.kind: unknown node kind %q", path, v.GetStringBytes("kind"))
	}
}

func decodeMember(v *fastjson.Value, path string) (*MemberAccess, error) {
	if v == nil || ParseKind(string(v.GetStringBytes("kind"))) != KindMember {
		return nil, fmt.Errorf("%s: expected a MemberAccess node", path)
	}
	base, err := decodeChild(v, "object", path)
	if err != nil {
		return nil, err
	}
	prop, err := decodeString(v, "property", path)
	if err != nil {
		return nil, err
	}
	return &MemberAccess{Base: base, Property: prop}, nil
}

func decodeChild(v *fastjson.Value, key, path string) (Node, error) {
	return decodeNode(v.Get(key), path+"."+key)
}

// member returns v[key], failing when it is absent.
func member(v *fastjson.Value, key, path string) (*fastjson.Value, error) {
	f := v.Get(key)
	if f == nil {
		return nil, fmt.Errorf("%s.%s: missing", path, key)
	}
	return f, nil
}

func decodeString(v *fastjson.Value, key, path string) (string, error) {
	f, err := member(v, key, path)
	if err != nil {
		return "", err
	}
	b, err := f.StringBytes()
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", path, key, err)
	}
	return string(b), nil
}

func decodeList(v *fastjson.Value, key, path string) ([]Node, error) {
	f, err := member(v, key, path)
	if err != nil {
		return nil, err
	}
	items, err := f.Array()
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", path, key, err)
	}
	var nodes []Node
	for i, item := range items {
		n, err := decodeNode(item, fmt.Sprintf("%s.%s[%d]", path, key, i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// EncodeJSON encodes a tree in the format read by DecodeJSON.
func EncodeJSON(n Node) ([]byte, error) {
	var a fastjson.Arena
	v, err := encodeNode(&a, n)
	if err != nil {
		return nil, err
	}
	return v.MarshalTo(nil), nil
}

func encodeNode(a *fastjson.Arena, n Node) (*fastjson.Value, error) {
	if n == nil {
		return nil, fmt.Errorf("encode tree: nil node")
	}

	o := a.NewObject()
	o.Set("kind", a.NewString(n.Kind().String()))

	var err error
	switch n := n.(type) {
	case *Program:
		err = setList(a, o, "body", n.Body)
	case *Statement:
		err = setChild(a, o, "expression", n.Expr)
	case *StringLiteral:
		o.Set("value", a.NewString(n.Value))
	case *NumberLiteral:
		o.Set("literal", a.NewString(n.Literal))
	case *BooleanLiteral:
		if n.Value {
			o.Set("value", a.NewTrue())
		} else {
			o.Set("value", a.NewFalse())
		}
	case *NullLiteral:
	case *Identifier:
		o.Set("name", a.NewString(n.Name))
	case *MemberAccess:
		if err = setChild(a, o, "object", n.Base); err == nil {
			o.Set("property", a.NewString(n.Property))
		}
	case *BinaryExpression:
		o.Set("operator", a.NewString(n.Operator))
		if err = setChild(a, o, "left", n.Left); err == nil {
			err = setChild(a, o, "right", n.Right)
		}
	case *UnaryExpression:
		o.Set("operator", a.NewString(n.Op.String()))
		err = setChild(a, o, "operand", n.Operand)
	case *ArrayLiteral:
		err = setList(a, o, "elements", n.Elements)
	case *CallExpression:
		if n.Callee == nil {
			return nil, fmt.Errorf("encode tree: call without callee")
		}
		if err = setChild(a, o, "callee", n.Callee); err == nil {
			err = setList(a, o, "arguments", n.Arguments)
		}
	case *AssignmentExpression:
		o.Set("operator", a.NewString(n.Operator))
		if err = setChild(a, o, "target", n.Target); err == nil {
			err = setChild(a, o, "value", n.Value)
		}
	case *SequenceExpression:
		if err = setChild(a, o, "left", n.Left); err == nil {
			err = setChild(a, o, "right", n.Right)
		}
	default:
		return nil, fmt.Errorf("encode tree: unsupported node %T", n)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func setChild(a *fastjson.Arena, o *fastjson.Value, key string, n Node) error {
	v, err := encodeNode(a, n)
	if err != nil {
		return err
	}
	o.Set(key, v)
	return nil
}

func setList(a *fastjson.Arena, o *fastjson.Value, key string, nodes []Node) error {
	arr := a.NewArray()
	for i, n := range nodes {
		v, err := encodeNode(a, n)
		if err != nil {
			return err
		}
		arr.SetArrayItem(i, v)
	}
	o.Set(key, arr)
	return nil
}
