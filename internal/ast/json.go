package ast

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders a node as a JSON object with "type" first followed by
// its fields in declaration order, the same order visitChildren walks them
// in. A plain map[string]any would lose that order (Go randomizes map
// iteration), which is why this exists instead of a struct tag-driven
// encoding/json round trip: the dump pass exists specifically to let a
// caller inspect the pipeline's intermediate state, and a shuffled field
// order would make that inspection misleading.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"type":`)
	typeJSON, err := json.Marshal(n.Type)
	if err != nil {
		return nil, err
	}
	buf.Write(typeJSON)
	for _, f := range n.Fields {
		buf.WriteByte(',')
		keyJSON, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := marshalValue(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v Value) ([]byte, error) {
	switch v.Kind {
	case KindNode:
		return json.Marshal(v.Node)
	case KindList:
		return json.Marshal(v.List)
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}
