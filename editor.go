package mathtree

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ============================================================
// Headless editor
// ============================================================

// Editor drives one tree the way a field-per-leaf editor would: text typed
// into the focused leaf resolves it, an operator character restructures the
// tree, and deleting next to an operator folds it away. An Editor is not
// safe for concurrent use.
type Editor struct {
	root   *Node
	focus  *Node
	caret  int
	drafts map[*Node]string
	log    *zap.Logger
}

type EditorOption func(*Editor)

func WithLogger(l *zap.Logger) EditorOption {
	return func(e *Editor) { e.log = l }
}

// WithTree edits an existing tree, focusing the end of its first leaf. The
// editor takes ownership of root.
func WithTree(root *Node) EditorOption {
	return func(e *Editor) {
		e.root = root.Root()
		e.focus = e.root.Leaves()[0]
		e.caret = len(e.focus.Text())
	}
}

func NewEditor(opts ...EditorOption) *Editor {
	root := New()
	e := &Editor{
		root:   root,
		focus:  root,
		drafts: map[*Node]string{},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) Root() *Node  { return e.root }
func (e *Editor) Focus() *Node { return e.focus }
func (e *Editor) Caret() int   { return e.caret }

// Text returns what the field for leaf n shows. That is the text last typed
// into it, which for an Unset leaf may not be a valid term.
func (e *Editor) Text(n *Node) string {
	if d, ok := e.drafts[n]; ok {
		return d
	}
	return n.Text()
}

// Select moves the focus to the leaf at path with the caret at offset,
// clamped to the leaf's text.
func (e *Editor) Select(path []int, caret int) error {
	n, err := e.root.At(path)
	if err != nil {
		return err
	}
	if n.IsOperator() {
		return fmt.Errorf("select %v: %w", path, ErrNotLeaf)
	}
	e.focus = n
	e.caret = clamp(caret, len(e.Text(n)))
	return nil
}

// Input replaces the text of leaf n with value, leaving the caret at its
// end. Only ASCII letters and digits are kept. The first operator character
// splits the input: the text before it resolves n, the operator is posted
// after n, and the remainder is typed into the new operand, which takes the
// focus.
func (e *Editor) Input(n *Node, value string) error {
	return e.input(n, value, len(value))
}

func (e *Editor) input(n *Node, value string, caret int) error {
	if n.IsOperator() {
		return fmt.Errorf("input: %w", ErrNotLeaf)
	}
	if strings.TrimSpace(value) == "" {
		n.Unresolve()
		e.drafts[n] = ""
		e.focus, e.caret = n, 0
		return nil
	}

	var kept strings.Builder
	keptCaret := -1
	var fork Op
	rest, restCaret := "", 0
	for i, r := range value {
		if i == caret {
			keptCaret = kept.Len()
		}
		if IsOperator(r) {
			end := i + utf8.RuneLen(r)
			fork, rest, restCaret = Op(r), value[end:], caret-end
			break
		}
		if isFieldChar(r) {
			kept.WriteRune(r)
		}
	}
	if keptCaret < 0 {
		keptCaret = kept.Len()
	}
	text := kept.String()
	kind := n.Resolve(text)
	e.drafts[n] = text
	e.focus, e.caret = n, keptCaret
	if fork == 0 {
		return nil
	}

	root, placeholder, err := n.PostOperation(fork)
	if err != nil {
		return err
	}
	e.root = root
	e.log.Debug("posted operation",
		zap.String("op", fork.String()),
		zap.Stringer("resolved", kind),
		zap.Ints("operand", placeholder.Path()),
		zap.String("formula", root.String()))
	return e.input(placeholder, rest, clamp(restCaret, len(rest)))
}

// Type inserts text at the caret.
func (e *Editor) Type(text string) error {
	value := e.Text(e.focus)
	c := clamp(e.caret, len(value))
	return e.input(e.focus, value[:c]+text+value[c:], c+len(text))
}

// Backspace deletes the character before the caret. At the start of a field
// whose previous sibling is a leaf it removes the operator between them.
func (e *Editor) Backspace() error {
	value := e.Text(e.focus)
	if e.caret > 0 {
		c := clamp(e.caret, len(value))
		return e.input(e.focus, value[:c-1]+value[c:], c-1)
	}
	if prev := e.focus.PreviousSibling(); prev != nil && !prev.IsOperator() {
		e.collapse()
	}
	return nil
}

// Delete deletes the character after the caret. At the end of a field whose
// next sibling is a leaf it removes the operator between them.
func (e *Editor) Delete() error {
	value := e.Text(e.focus)
	if e.caret < len(value) {
		return e.input(e.focus, value[:e.caret]+value[e.caret+1:], e.caret)
	}
	if next := e.focus.NextSibling(); next != nil && !next.IsOperator() {
		e.collapse()
	}
	return nil
}

// Left moves the caret back, crossing into the previous leaf at the start
// of a field.
func (e *Editor) Left() {
	if e.caret > 0 {
		e.caret--
		return
	}
	if prev := e.focus.PreviousLeaf(); prev != nil {
		e.focus, e.caret = prev, len(e.Text(prev))
	}
}

// Right moves the caret forward, crossing into the next leaf at the end of
// a field.
func (e *Editor) Right() {
	if e.caret < len(e.Text(e.focus)) {
		e.caret++
		return
	}
	if next := e.focus.NextLeaf(); next != nil {
		e.focus, e.caret = next, 0
	}
}

// collapse folds the focused leaf's parent into one field. The caret keeps
// its offset counted over the literal digits before it.
func (e *Editor) collapse() {
	parent := e.focus.parent
	caret := 0
	for _, c := range parent.children {
		if c == e.focus {
			caret += e.caret
			break
		}
		if c.Kind() == KindLiteral {
			caret += len(e.Text(c))
		}
	}
	removed := parent.Children()
	folded := e.focus.RemoveOperation()
	for _, c := range removed {
		c.Walk(func(x *Node) bool {
			delete(e.drafts, x)
			return true
		})
	}
	delete(e.drafts, folded)
	e.focus = folded
	e.caret = clamp(caret, len(e.Text(folded)))
	e.log.Debug("removed operation",
		zap.Stringer("result", folded.Kind()),
		zap.Ints("field", folded.Path()),
		zap.String("formula", e.root.String()))
}

// Values evaluates every operator above the focus, nearest first.
func (e *Editor) Values() []Evaluation { return EvaluateChain(e.focus) }

// ============================================================
// Keys
// ============================================================

const (
	KeyType      = "type"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
)

// Key is one editing gesture. Text is used by KeyType only.
type Key struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

func (k Key) String() string {
	if k.Name == KeyType {
		return k.Name + " " + k.Text
	}
	return k.Name
}

// ParseKey reads the script form of a key: "type 2+x", "left", "right",
// "backspace" or "delete".
func ParseKey(line string) (Key, error) {
	line = strings.TrimLeft(line, " \t")
	name, text, _ := strings.Cut(line, " ")
	k := Key{Name: strings.ToLower(strings.TrimSpace(name)), Text: text}
	switch k.Name {
	case KeyType:
		return k, nil
	case KeyLeft, KeyRight, KeyBackspace, KeyDelete:
		return Key{Name: k.Name}, nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// Apply performs k.
func (e *Editor) Apply(k Key) error {
	switch k.Name {
	case KeyType:
		return e.Type(k.Text)
	case KeyLeft:
		e.Left()
	case KeyRight:
		e.Right()
	case KeyBackspace:
		return e.Backspace()
	case KeyDelete:
		return e.Delete()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, k.Name)
	}
	return nil
}

// Snapshot is a rendered view of an editor.
type Snapshot struct {
	Formula    string `json:"formula"`
	LaTeX      string `json:"latex"`
	Value      string `json:"value"`
	ValueLaTeX string `json:"value_latex"`
	Evaluated  bool   `json:"evaluated"`
	Focus      []int  `json:"focus"`
	Caret      int    `json:"caret"`
}

func (e *Editor) State() Snapshot {
	s := Snapshot{
		Formula: e.root.String(),
		LaTeX:   e.root.LaTeX(),
		Focus:   e.focus.Path(),
		Caret:   e.caret,
	}
	if terms, ok := e.root.Evaluate(); ok {
		s.Value, s.ValueLaTeX, s.Evaluated = terms.String(), terms.LaTeX(), true
	}
	return s
}

func isFieldChar(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
