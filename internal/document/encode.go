package document

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	nanText    = ".nan"
	posInfText = ".inf"
	negInfText = "-.inf"
)

// formatFloat renders f so that it reads back as a float in both YAML and JSON
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return nanText
	case math.IsInf(f, 1):
		return posInfText
	case math.IsInf(f, -1):
		return negInfText
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// MarshalJSON renders v as JSON with mapping keys in document order.
// Non-finite floats become the strings ".nan", ".inf" and "-.inf";
// timestamps become RFC 3339 strings.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull, KindAbsent:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		buf.WriteString(v.i.String())
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return writeJSONString(buf, formatFloat(v.f))
		}
		buf.WriteString(formatFloat(v.f))
	case KindString:
		return writeJSONString(buf, v.s)
	case KindTimestamp:
		return writeJSONString(buf, v.t.Format(time.RFC3339Nano))
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, key := range v.m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := v.m.values[key].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// MarshalYAML implements yaml.Marshaler, preserving key order and scalar types
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Node(), nil
}

// Node converts v to a yaml.Node tree
func (v Value) Node() *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.i.String()}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v.f)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindTimestamp:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: v.t.Format(time.RFC3339Nano)}
	case KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			node.Content = append(node.Content, item.Node())
		}
		return node
	case KindMapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.m.keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				v.m.values[key].Node(),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// String renders v as compact single-line JSON, which keeps
// 8080 and "8080" visibly distinct. The absent sentinel renders as <absent>.
func (v Value) String() string {
	if v.kind == KindAbsent {
		return "<absent>"
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return "<unprintable>"
	}
	return string(data)
}
