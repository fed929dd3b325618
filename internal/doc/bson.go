package doc

import (
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// ToBSON converts d to a bson.D for the MongoDB Go driver. Key order is kept.
//
// Integer literals become int64 (float64 when they overflow int64); other
// numbers become float64. Nothing else in the value model needs conversion
// beyond the container types.
func ToBSON(d *Document) (bson.D, error) {
	if d == nil {
		return nil, fmt.Errorf("nil document")
	}
	out := make(bson.D, 0, len(d.elems))
	for _, e := range d.elems {
		v, err := toBSONValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", e.Key, err)
		}
		out = append(out, bson.E{Key: e.Key, Value: v})
	}
	return out, nil
}

func toBSONValue(v Value) (any, error) {
	switch val := v.(type) {
	case Null:
		return nil, nil
	case Bool:
		return bool(val), nil
	case String:
		return string(val), nil
	case Number:
		return numberToBSON(val)
	case Array:
		arr := make(bson.A, len(val))
		for i, elem := range val {
			b, err := toBSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = b
		}
		return arr, nil
	case *Document:
		return ToBSON(val)
	default:
		return nil, fmt.Errorf("unknown document value type: %T", v)
	}
}

func numberToBSON(n Number) (any, error) {
	if !ValidNumber(string(n)) {
		return nil, fmt.Errorf("invalid number literal %q", string(n))
	}
	if n.IsInteger() {
		i, err := strconv.ParseInt(string(n), 10, 64)
		if err == nil {
			return i, nil
		}
		if !errors.Is(err, strconv.ErrRange) {
			return nil, err
		}
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", string(n), err)
	}
	return f, nil
}
