package workflow

import (
	"slices"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"
)

// maxAliasDepth bounds alias and merge key chains.
const maxAliasDepth = 100

// anchorCollector collects anchors and aliases in the order they appear in the file.
type anchorCollector struct {
	anchors map[string][]*ast.AnchorNode
	aliases []*ast.AliasNode
}

func (c *anchorCollector) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.AnchorNode:
		if n.Name != nil && n.Name.GetToken() != nil {
			name := n.Name.GetToken().Value
			c.anchors[name] = append(c.anchors[name], n)
		}
	case *ast.AliasNode:
		c.aliases = append(c.aliases, n)
	}
	return c
}

func collectAnchors(f *ast.File) *anchorCollector {
	c := &anchorCollector{
		anchors: map[string][]*ast.AnchorNode{},
	}
	if f == nil {
		return c
	}
	for _, doc := range f.Docs {
		if doc != nil {
			ast.Walk(c, doc)
		}
	}
	return c
}

func offset(node ast.Node) int {
	tk := node.GetToken()
	if tk == nil || tk.Position == nil {
		return 0
	}
	return tk.Position.Offset
}

// alias returns the value of the anchor an alias refers to.
// An anchor name can be redefined, so the last anchor before the alias is used.
// It returns nil if the anchor isn't found.
func (f *File) alias(node *ast.AliasNode) ast.Node {
	if node.Value == nil || node.Value.GetToken() == nil {
		return nil
	}
	pos := offset(node)
	var value ast.Node
	for _, anchor := range f.anchors[node.Value.GetToken().Value] {
		if offset(anchor) > pos {
			break
		}
		value = anchor.Value
	}
	return value
}

// unwrap strips anchors and tags and follows aliases so that `run: &script |`,
// `run: *script` and `steps: !!seq` are handled like their plain forms.
func (f *File) unwrap(node ast.Node) ast.Node {
	for range maxAliasDepth {
		switch n := node.(type) {
		case *ast.AnchorNode:
			node = n.Value
		case *ast.TagNode:
			node = n.Value
		case *ast.AliasNode:
			v := f.alias(n)
			if v == nil {
				return node
			}
			node = v
		default:
			return node
		}
	}
	return node
}

// mappingValues returns the key/value pairs of a mapping node with merge keys (`<<`) expanded.
// A single pair may be represented as *ast.MappingValueNode depending on the parser version.
func (f *File) mappingValues(node ast.Node) ([]*ast.MappingValueNode, bool) {
	return f.mergedValues(node, 0)
}

func isMergeKey(value *ast.MappingValueNode) bool {
	return value.Key != nil && value.Key.IsMergeKey()
}

func (f *File) mergedValues(node ast.Node, depth int) ([]*ast.MappingValueNode, bool) {
	var values []*ast.MappingValueNode
	switch n := f.unwrap(node).(type) {
	case *ast.MappingNode:
		values = n.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{n}
	default:
		return nil, false
	}
	if !slices.ContainsFunc(values, isMergeKey) {
		return values, true
	}
	explicit := make([]*ast.MappingValueNode, 0, len(values))
	var sources [][]*ast.MappingValueNode
	for _, value := range values {
		if !isMergeKey(value) {
			explicit = append(explicit, value)
			continue
		}
		if depth >= maxAliasDepth {
			continue
		}
		// `<<: *a` or `<<: [*a, *b]`
		nodes := []ast.Node{value.Value}
		if seq, ok := f.unwrap(value.Value).(*ast.SequenceNode); ok {
			nodes = seq.Values
		}
		for _, n := range nodes {
			if vs, ok := f.mergedValues(n, depth+1); ok {
				sources = append(sources, vs)
			}
		}
	}
	if len(sources) == 0 {
		return explicit, true
	}
	// Explicit keys take precedence over merged keys, and earlier sources over later ones.
	chosen := map[string]*ast.MappingValueNode{}
	for _, vs := range append([][]*ast.MappingValueNode{explicit}, sources...) {
		for _, v := range vs {
			k := keyName(v)
			if _, ok := chosen[k]; !ok {
				chosen[k] = v
			}
		}
	}
	// Merged keys come first, from the last source to the first one.
	slices.Reverse(sources)
	merged := make([]*ast.MappingValueNode, 0, len(chosen))
	for _, vs := range append(sources, explicit) {
		for _, v := range vs {
			k := keyName(v)
			c, ok := chosen[k]
			if !ok {
				continue
			}
			merged = append(merged, c)
			delete(chosen, k)
		}
	}
	return merged, true
}

func (f *File) isNull(node ast.Node) bool {
	switch f.unwrap(node).(type) {
	case nil, *ast.NullNode:
		return true
	default:
		return false
	}
}

func keyName(value *ast.MappingValueNode) string {
	switch k := value.Key.(type) {
	case nil:
		return ""
	case *ast.StringNode:
		return k.Value
	default:
		if tk := k.GetToken(); tk != nil {
			return tk.Value
		}
		return ""
	}
}

func findNodeByKey(values []*ast.MappingValueNode, key string) *ast.MappingValueNode {
	for _, value := range values {
		if keyName(value) == key {
			return value
		}
	}
	return nil
}

// scalar returns the string form of a scalar node.
// The second value is false if the node is a collection.
func (f *File) scalar(node ast.Node) (string, bool) {
	switch n := f.unwrap(node).(type) {
	case nil, *ast.NullNode:
		return "", true
	case *ast.StringNode:
		return n.Value, true
	case *ast.LiteralNode:
		if n.Value == nil {
			return "", true
		}
		return n.Value.Value, true
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.InfinityNode, *ast.NanNode:
		if tk := n.GetToken(); tk != nil {
			return tk.Value, true
		}
		return "", true
	default:
		return "", false
	}
}

// scriptLocation is where a `run` value is located in the file.
type scriptLocation struct {
	// position is where the first character of the script is located.
	position Position
	// block reports whether the value is a block scalar (`|` or `>`),
	// in which case every line of the script shares the same indentation.
	block bool
	// lines is the file line of each line of the script.
	// It's set only for folded block scalars, whose lines can't be computed from position.
	lines []int
}

func (f *File) scriptLocation(node ast.Node, script string) scriptLocation {
	switch n := f.unwrap(node).(type) {
	case *ast.LiteralNode:
		if n.Start == nil || n.Start.Position == nil {
			return scriptLocation{block: true}
		}
		line := n.Start.Position.Line + 1
		indent := blockIndent(f.lines, line)
		loc := scriptLocation{
			position: Position{
				Line:   line,
				Column: indent + 1,
			},
			block: true,
		}
		if n.Start.Type == token.FoldedType {
			loc.lines = foldedLines(f.lines, line, indent, len(splitLines(script)))
		}
		return loc
	case *ast.StringNode:
		tk := n.Token
		if tk == nil || tk.Position == nil {
			return scriptLocation{}
		}
		col := tk.Position.Column
		if tk.Type == token.DoubleQuoteType || tk.Type == token.SingleQuoteType {
			col++
		}
		return scriptLocation{
			position: Position{
				Line:   tk.Position.Line,
				Column: col,
			},
		}
	default:
		return scriptLocation{}
	}
}

// blockIndent returns the indentation of the first non blank line at or after the 1-based line.
func blockIndent(lines []string, line int) int {
	for i := line - 1; i >= 0 && i < len(lines); i++ {
		l := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimLeft(l, " ")
		if trimmed == "" {
			continue
		}
		return len(l) - len(trimmed)
	}
	return 0
}

// foldedLines returns the 1-based file line of each of the n lines of a folded block scalar
// whose content starts at the line start.
// A line break between two lines which aren't more indented is folded into a space,
// so a new line of the script starts only after blank lines or around more indented lines.
func foldedLines(lines []string, start, indent, n int) []int {
	arr := make([]int, 0, n)
	prevLine := 0
	prevMore := false
	for line := start; line <= len(lines) && len(arr) < n; line++ {
		l := strings.TrimRight(lines[line-1], "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		if len(l)-len(strings.TrimLeft(l, " ")) < indent {
			break
		}
		more := len(l) > indent && (l[indent] == ' ' || l[indent] == '\t')
		var breaks int
		switch {
		case prevLine == 0:
			// leading blank lines are kept
			breaks = line - start + 1
		case prevMore || more:
			breaks = line - prevLine
		default:
			breaks = line - prevLine - 1
		}
		for i := breaks - 1; i >= 0; i-- {
			arr = append(arr, line-i)
		}
		prevLine, prevMore = line, more
	}
	if len(arr) > n {
		return arr[:n]
	}
	return arr
}
