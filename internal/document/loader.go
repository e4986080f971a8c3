package document

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/driftguard/internal/errors"
)

// Document is a configuration file loaded for comparison.
// It is never modified after Load returns.
type Document struct {
	// Path is the file the document was read from
	Path string

	// Root is the top-level mapping
	Root Value

	// Digest is the BLAKE3 hex digest of the bytes that were parsed
	Digest string

	// Size is the number of bytes read
	Size int
}

// Loader reads documents from disk
type Loader interface {
	Load(path string) (*Document, error)
}

// FileLoader implements Loader for YAML (and JSON) files
type FileLoader struct{}

// NewFileLoader creates a new file-based loader
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads and parses the document at path. It has no side effects.
func (l *FileLoader) Load(path string) (*Document, error) {
	return Load(path)
}

// Load reads and parses the document at path.
// Errors carry IO-001 (missing), IO-002 (unreadable) or IO-005 (malformed).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.NewFileReadError(path, err)
	}

	root, err := Parse(data)
	if err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}

	return &Document{
		Path:   path,
		Root:   root,
		Digest: Digest(data),
		Size:   len(data),
	}, nil
}

// Parse decodes a single YAML document whose top level is a mapping.
// An empty document yields an empty mapping.
func Parse(data []byte) (Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return Map(), nil
		}
		return Value{}, err
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, err
		}
		return Value{}, fmt.Errorf("expected a single document, found more than one")
	}

	node := &doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return Map(), nil
		}
		node = node.Content[0]
	}

	c := &converter{active: make(map[*yaml.Node]bool)}
	root, err := c.convert(node)
	if err != nil {
		return Value{}, err
	}

	switch root.Kind() {
	case KindMapping:
		return root, nil
	case KindNull:
		return Map(), nil
	default:
		return Value{}, fmt.Errorf("line %d: top level must be a mapping, got %s", node.Line, root.Kind())
	}
}

type converter struct {
	// active holds alias targets currently being expanded, to catch cycles
	active map[*yaml.Node]bool
}

func (c *converter) convert(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return c.alias(node)
	case yaml.ScalarNode:
		return scalar(node)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := c.convert(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindSequence, items: items}, nil
	case yaml.MappingNode:
		return c.mapping(node)
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return c.convert(node.Content[0])
	default:
		return Value{}, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

func (c *converter) alias(node *yaml.Node) (Value, error) {
	target := node.Alias
	if target == nil {
		return Value{}, fmt.Errorf("line %d: unknown anchor %q", node.Line, node.Value)
	}
	if c.active[target] {
		return Value{}, fmt.Errorf("line %d: recursive alias *%s", node.Line, node.Value)
	}
	c.active[target] = true
	defer delete(c.active, target)
	return c.convert(target)
}

func (c *converter) mapping(node *yaml.Node) (Value, error) {
	m := &mapping{values: make(map[string]Value, len(node.Content)/2)}

	// Merged entries go in first so explicit keys override them.
	// Sources listed earlier in a merge sequence take precedence.
	var merges []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		if isMergeKey(node.Content[i]) {
			sources, err := mergeSources(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			merges = append(merges, sources...)
		}
	}
	for i := len(merges) - 1; i >= 0; i-- {
		merged, err := c.convert(merges[i])
		if err != nil {
			return Value{}, err
		}
		if merged.Kind() != KindMapping {
			return Value{}, fmt.Errorf("line %d: merge source must be a mapping", merges[i].Line)
		}
		for _, key := range merged.m.keys {
			m.set(key, merged.m.values[key])
		}
	}

	// Keys are identified by their scalar text, so 1 and "1" are the same key.
	seen := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if isMergeKey(keyNode) {
			continue
		}

		key, err := c.key(keyNode)
		if err != nil {
			return Value{}, err
		}
		if first, ok := seen[key]; ok {
			if first.ShortTag() != keyNode.ShortTag() {
				return Value{}, fmt.Errorf("line %d: mapping key %q collides with the %s key on line %d",
					keyNode.Line, key, first.ShortTag(), first.Line)
			}
			return Value{}, fmt.Errorf("line %d: mapping key %q already defined", keyNode.Line, key)
		}
		seen[key] = keyNode

		value, err := c.convert(valueNode)
		if err != nil {
			return Value{}, err
		}
		m.set(key, value)
	}

	return Value{kind: KindMapping, m: m}, nil
}

func (c *converter) key(node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping keys must be scalars", node.Line)
	}
	return node.Value, nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

func mergeSources(node *yaml.Node) ([]*yaml.Node, error) {
	switch node.Kind {
	case yaml.MappingNode, yaml.AliasNode:
		return []*yaml.Node{node}, nil
	case yaml.SequenceNode:
		return node.Content, nil
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", node.Line)
	}
}

// intLiteral matches the YAML integer forms: optional sign, then decimal,
// 0b, 0o or 0x digits. Underscores are stripped before matching.
var intLiteral = regexp.MustCompile(`^[-+]?(0b[01]+|0o[0-7]+|0x[0-9a-fA-F]+|[0-9]+)$`)

func scalar(node *yaml.Node) (Value, error) {
	tag := node.ShortTag()

	// yaml.v3 resolves integers beyond 64 bits to !!float (decimal) or
	// !!str (hex); keep them as integers.
	if node.Style == 0 && (tag == "!!float" || tag == "!!str") {
		if i, ok := parseInt(node.Value); ok {
			return BigInt(i), nil
		}
	}

	switch tag {
	case "!!null":
		return Null(), nil
	case "!!str", "!!binary":
		return String(node.Value), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		i, ok := parseInt(node.Value)
		if !ok {
			return Value{}, fmt.Errorf("line %d: cannot decode integer %q", node.Line, node.Value)
		}
		return BigInt(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return String(node.Value), nil
		}
		return Timestamp(t), nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported tag %s", node.Line, tag)
	}
}

// parseInt parses a YAML integer literal at arbitrary precision.
// A leading zero on a decimal literal means octal, as in yaml.v3.
func parseInt(text string) (*big.Int, bool) {
	plain := strings.ReplaceAll(text, "_", "")
	if !intLiteral.MatchString(plain) {
		return nil, false
	}
	return new(big.Int).SetString(plain, 0)
}
