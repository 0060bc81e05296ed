// Package codec provides textual and binary encodings of the IR for
// downstream consumers. Every codec preserves mapping key order and
// sequence element order round-trip, and represents the IR's null
// scalar as the encoding's own null marker.
package codec

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/GrayHat12/pykachu/ir"
)

// EncodeYAML returns the YAML document encoding of v.
func EncodeYAML(v ir.Value) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func yamlNode(v ir.Value) (*yaml.Node, error) {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}
	switch val := v.(type) {
	case nil, ir.Null:
		return scalar("!!null", "null"), nil
	case ir.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(val))), nil
	case ir.Int:
		return scalar("!!int", strconv.FormatInt(int64(val), 10)), nil
	case ir.Uint:
		return scalar("!!int", strconv.FormatUint(uint64(val), 10)), nil
	case ir.Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("YAML codec cannot represent float %v", f)
		}
		return scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64)), nil
	case ir.String:
		return scalar("!!str", string(val)), nil
	case ir.Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range val {
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *ir.Mapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, mv := range val.All() {
			child, err := yamlNode(mv)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalar("!!str", k), child)
		}
		return node, nil
	}
	return nil, fmt.Errorf("unknown IR value %T", v)
}

// DecodeYAML parses a YAML document into an IR value, mapping key order
// preserved.
func DecodeYAML(data []byte) (ir.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return ir.Null{}, nil
		}
		return fromYAML(doc.Content[0])
	}
	return fromYAML(&doc)
}

func fromYAML(n *yaml.Node) (ir.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		seq := make(ir.Sequence, 0, len(n.Content))
		for _, child := range n.Content {
			elem, err := fromYAML(child)
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		return seq, nil
	case yaml.MappingNode:
		m := ir.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: non-scalar mapping key", key.Line)
			}
			val, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, val)
		}
		return m, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (ir.Value, error) {
	switch n.Tag {
	case "!!null":
		return ir.Null{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid bool %q", n.Line, n.Value)
		}
		return ir.Bool(b), nil
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return ir.Int(i), nil
		}
		if u, err := strconv.ParseUint(n.Value, 10, 64); err == nil {
			return ir.Uint(u), nil
		}
		return nil, fmt.Errorf("line %d: invalid int %q", n.Line, n.Value)
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid float %q", n.Line, n.Value)
		}
		return ir.Float(f), nil
	default:
		return ir.String(n.Value), nil
	}
}
