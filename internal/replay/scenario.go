package replay

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/drag"
)

// Layout defaults.
const (
	DefaultItemWidth   = 200
	DefaultItemHeight  = 40
	DefaultHandleWidth = 20
)

// Scenario is a scripted drag session against a laid-out list.
type Scenario struct {
	// Name describes the scenario. Defaults to the source name.
	Name string

	// Source is the file path or s3:// URI the scenario came from.
	Source string

	Items   []string
	Layout  Layout
	Options drag.Options
	Steps   []Step
	Expect  Expect

	src []byte
}

// Layout places the items. Every item has the same size and the list
// starts at Origin.
type Layout struct {
	Axis   dom.Axis
	Width  float64
	Height float64
	Gap    float64
	Origin dom.Point

	// HandleWidth is the width of the handle strip at the leading edge of
	// each item.
	HandleWidth float64
}

// Action is a step kind.
type Action string

const (
	ActionDown       Action = "down"
	ActionMove       Action = "move"
	ActionUp         Action = "up"
	ActionTouchStart Action = "touchstart"
	ActionTouchMove  Action = "touchmove"
	ActionTouchEnd   Action = "touchend"
	ActionAppend     Action = "append"
	ActionRemove     Action = "remove"
	ActionRefresh    Action = "refresh"
)

var pointerEvents = map[Action]string{
	ActionDown:       dom.EventMouseDown,
	ActionMove:       dom.EventMouseMove,
	ActionUp:         dom.EventMouseUp,
	ActionTouchStart: dom.EventTouchStart,
	ActionTouchMove:  dom.EventTouchMove,
	ActionTouchEnd:   dom.EventTouchEnd,
}

// Pointer reports whether the action dispatches a pointer event.
func (a Action) Pointer() bool {
	_, ok := pointerEvents[a]
	return ok
}

// Step is one scripted action.
type Step struct {
	Action Action

	// At and Button are set for pointer actions.
	At     dom.Point
	Button int

	// Item is the value appended by append.
	Item string

	// Index is the position removed by remove.
	Index int

	Line   int
	Column int
}

// String returns the step as written, e.g. "down [10, 10]".
func (s Step) String() string {
	switch {
	case s.Action.Pointer():
		if s.Button != dom.ButtonMain {
			return fmt.Sprintf("%s [%g, %g] button %d", s.Action, s.At.X, s.At.Y, s.Button)
		}
		return fmt.Sprintf("%s [%g, %g]", s.Action, s.At.X, s.At.Y)
	case s.Action == ActionAppend:
		return fmt.Sprintf("append %q", s.Item)
	case s.Action == ActionRemove:
		return fmt.Sprintf("remove %d", s.Index)
	default:
		return string(s.Action)
	}
}

// Reorder is one reorder notification.
type Reorder struct {
	From int
	To   int
}

// String returns "from->to".
func (r Reorder) String() string {
	return fmt.Sprintf("%d->%d", r.From, r.To)
}

// UnmarshalYAML accepts [from, to] or {from: 0, to: 1}.
func (r *Reorder) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var pair []int
		if err := n.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: reorder needs [from, to], got %d values", n.Line, len(pair))
		}
		r.From, r.To = pair[0], pair[1]
		return nil
	case yaml.MappingNode:
		var m struct {
			From int `yaml:"from"`
			To   int `yaml:"to"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		r.From, r.To = m.From, m.To
		return nil
	}
	return fmt.Errorf("line %d: reorder needs [from, to]", n.Line)
}

// Expect holds the checks run after the last step. Unset checks are
// skipped; an empty reorders list is a check that nothing was reordered.
type Expect struct {
	Order    []string
	Reorders []Reorder
	State    drag.State

	order    *yaml.Node
	reorders *yaml.Node
	state    *yaml.Node
}

// HasChecks reports whether any expectation is set.
func (e *Expect) HasChecks() bool {
	return e.order != nil || e.reorders != nil || e.state != nil
}

// =============================================================================
// Parsing
// =============================================================================

type rawScenario struct {
	Name    string    `yaml:"name"`
	Items   []string  `yaml:"items"`
	Layout  yaml.Node `yaml:"layout"`
	Options yaml.Node `yaml:"options"`
	Steps   yaml.Node `yaml:"steps"`
	Expect  yaml.Node `yaml:"expect"`
}

type rawLayout struct {
	Axis   string    `yaml:"axis"`
	Size   []float64 `yaml:"size"`
	Gap    float64   `yaml:"gap"`
	Origin []float64 `yaml:"origin"`
	Handle *float64  `yaml:"handle"`
}

type rawOptions struct {
	Items  string `yaml:"items"`
	Handle string `yaml:"handle"`
	LockX  bool   `yaml:"lockX"`
	LockY  bool   `yaml:"lockY"`
}

type rawExpect struct {
	Order    yaml.Node `yaml:"order"`
	Reorders yaml.Node `yaml:"reorders"`
	State    yaml.Node `yaml:"state"`
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// Parse reads a scenario from YAML or JSON. name is used in error
// locations.
func Parse(name string, src []byte) (*Scenario, error) {
	var raw rawScenario
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.CodeScenarioParse).
				WithDetailf("%s is empty", name).
				WithExample(exampleScenario)
		}
		e := errors.New(errors.CodeScenarioParse).
			WithDetailf("%s is not a valid scenario", name).
			Wrap(err)
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ := strconv.Atoi(m[1])
			e = e.WithSource(name, src, line, 0)
		}
		return nil, e
	}

	sc := &Scenario{
		Name:   raw.Name,
		Source: name,
		Items:  raw.Items,
		src:    src,
	}
	if sc.Name == "" {
		sc.Name = name
	}

	var err error
	if sc.Layout, err = sc.parseLayout(&raw.Layout); err != nil {
		return nil, err
	}
	if sc.Options, err = sc.parseOptions(&raw.Options); err != nil {
		return nil, err
	}
	if sc.Steps, err = sc.parseSteps(&raw.Steps); err != nil {
		return nil, err
	}
	if sc.Expect, err = sc.parseExpect(&raw.Expect); err != nil {
		return nil, err
	}
	return sc, nil
}

const exampleScenario = `items: [Apples, Bread, Cheese]
steps:
  - down: [10, 10]
  - move: [10, 50]
  - up: [10, 50]
expect:
  order: [Bread, Apples, Cheese]`

// errAt builds a scenario error located at n.
func (sc *Scenario) errAt(code string, n *yaml.Node) *errors.SortableError {
	if n == nil {
		return errors.New(code)
	}
	return sc.errAtLine(code, n.Line, n.Column)
}

func (sc *Scenario) errAtLine(code string, line, column int) *errors.SortableError {
	e := errors.New(code)
	if line > 0 && sc.src != nil {
		e = e.WithSource(sc.Source, sc.src, line, column)
	}
	return e
}

func (sc *Scenario) parseLayout(n *yaml.Node) (Layout, error) {
	l := Layout{
		Width:       DefaultItemWidth,
		Height:      DefaultItemHeight,
		HandleWidth: DefaultHandleWidth,
	}
	if n.Kind == 0 {
		return l, nil
	}

	var raw rawLayout
	if err := n.Decode(&raw); err != nil {
		return l, sc.errAt(errors.CodeScenarioLayout, n).Wrap(err)
	}

	switch strings.ToLower(raw.Axis) {
	case "", "vertical", "y":
		l.Axis = dom.Vertical
	case "horizontal", "x":
		l.Axis = dom.Horizontal
	default:
		return l, sc.errAt(errors.CodeScenarioLayout, n).
			WithDetailf("unknown axis %q", raw.Axis).
			WithSuggestion("Use vertical or horizontal")
	}

	switch len(raw.Size) {
	case 0:
	case 2:
		l.Width, l.Height = raw.Size[0], raw.Size[1]
	default:
		return l, sc.errAt(errors.CodeScenarioLayout, n).
			WithDetailf("size needs [width, height], got %d values", len(raw.Size))
	}
	if l.Width <= 0 || l.Height <= 0 {
		return l, sc.errAt(errors.CodeScenarioLayout, n).
			WithDetailf("item size %gx%g is not positive", l.Width, l.Height)
	}

	switch len(raw.Origin) {
	case 0:
	case 2:
		l.Origin = dom.Point{X: raw.Origin[0], Y: raw.Origin[1]}
	default:
		return l, sc.errAt(errors.CodeScenarioLayout, n).
			WithDetailf("origin needs [x, y], got %d values", len(raw.Origin))
	}

	if raw.Gap < 0 {
		return l, sc.errAt(errors.CodeScenarioLayout, n).
			WithDetailf("gap %g is negative", raw.Gap)
	}
	l.Gap = raw.Gap

	if raw.Handle != nil {
		if *raw.Handle < 0 || *raw.Handle > l.Width {
			return l, sc.errAt(errors.CodeScenarioLayout, n).
				WithDetailf("handle width %g is outside [0, %g]", *raw.Handle, l.Width)
		}
		l.HandleWidth = *raw.Handle
	}
	return l, nil
}

func (sc *Scenario) parseOptions(n *yaml.Node) (drag.Options, error) {
	var o drag.Options
	if n.Kind == 0 {
		return o, nil
	}
	var raw rawOptions
	if err := n.Decode(&raw); err != nil {
		return o, sc.errAt(errors.CodeScenarioParse, n).
			WithDetail("options must map items, handle, lockX and lockY").
			Wrap(err)
	}
	o = drag.Options{
		Items:  raw.Items,
		Handle: raw.Handle,
		LockX:  raw.LockX,
		LockY:  raw.LockY,
	}
	if err := o.Validate(); err != nil {
		se := errors.FromError(err, errors.CodeInvalidItemSelector)
		if n.Line > 0 {
			se.WithSource(sc.Source, sc.src, n.Line, n.Column)
		}
		return o, se
	}
	return o, nil
}

func (sc *Scenario) parseSteps(n *yaml.Node) ([]Step, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, sc.errAt(errors.CodeScenarioStep, n).
			WithDetail("steps must be a list").
			WithExample(exampleScenario)
	}
	steps := make([]Step, 0, len(n.Content))
	for _, item := range n.Content {
		step, err := sc.parseStep(item)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// parseStep accepts a bare action ("refresh") or a single-key mapping
// from action to its argument.
func (sc *Scenario) parseStep(n *yaml.Node) (Step, error) {
	step := Step{Line: n.Line, Column: n.Column}
	stepErr := func(at *yaml.Node, format string, args ...any) error {
		return sc.errAt(errors.CodeScenarioStep, at).
			WithDetailf(format, args...).
			WithSuggestion("Steps are down, move, up, touchstart, touchmove, touchend, append, remove and refresh").
			WithExample("- down: [10, 10]")
	}

	var arg *yaml.Node
	switch n.Kind {
	case yaml.ScalarNode:
		step.Action = Action(n.Value)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return step, stepErr(n, "a step needs exactly one action, got %d", len(n.Content)/2)
		}
		step.Action = Action(n.Content[0].Value)
		arg = n.Content[1]
	default:
		return step, stepErr(n, "a step must be an action or a mapping")
	}

	switch {
	case step.Action.Pointer():
		if arg == nil {
			return step, stepErr(n, "%s needs a position [x, y]", step.Action)
		}
		var xs []float64
		if err := arg.Decode(&xs); err != nil || len(xs) < 2 || len(xs) > 3 {
			return step, stepErr(arg, "%s needs [x, y] or [x, y, button]", step.Action)
		}
		step.At = dom.Point{X: xs[0], Y: xs[1]}
		if len(xs) == 3 {
			step.Button = int(xs[2])
		}

	case step.Action == ActionAppend:
		if arg == nil || arg.Kind != yaml.ScalarNode {
			return step, stepErr(n, "append needs an item")
		}
		step.Item = arg.Value

	case step.Action == ActionRemove:
		if arg == nil {
			return step, stepErr(n, "remove needs an index")
		}
		if err := arg.Decode(&step.Index); err != nil {
			return step, stepErr(arg, "remove needs an integer index")
		}

	case step.Action == ActionRefresh:
		if arg != nil && arg.Tag != "!!null" && !(arg.Kind == yaml.MappingNode && len(arg.Content) == 0) {
			return step, stepErr(arg, "refresh takes no argument")
		}

	default:
		return step, stepErr(n, "unknown action %q", step.Action)
	}
	return step, nil
}

func (sc *Scenario) parseExpect(n *yaml.Node) (Expect, error) {
	var e Expect
	if n.Kind == 0 {
		return e, nil
	}
	var raw rawExpect
	if err := n.Decode(&raw); err != nil {
		return e, sc.errAt(errors.CodeScenarioParse, n).Wrap(err)
	}

	if raw.Order.Kind != 0 {
		if err := raw.Order.Decode(&e.Order); err != nil {
			return e, sc.errAt(errors.CodeScenarioParse, &raw.Order).
				WithDetail("order must be a list of items").
				Wrap(err)
		}
		if e.Order == nil {
			e.Order = []string{}
		}
		e.order = &raw.Order
	}

	if raw.Reorders.Kind != 0 {
		if err := raw.Reorders.Decode(&e.Reorders); err != nil {
			return e, sc.errAt(errors.CodeScenarioParse, &raw.Reorders).
				WithDetail("reorders must be a list of [from, to] pairs").
				Wrap(err)
		}
		if e.Reorders == nil {
			e.Reorders = []Reorder{}
		}
		e.reorders = &raw.Reorders
	}

	if raw.State.Kind != 0 {
		switch raw.State.Value {
		case drag.Idle.String():
			e.State = drag.Idle
		case drag.Dragging.String():
			e.State = drag.Dragging
		default:
			return e, sc.errAt(errors.CodeScenarioParse, &raw.State).
				WithDetailf("unknown state %q", raw.State.Value).
				WithSuggestion("Use idle or dragging")
		}
		e.state = &raw.State
	}
	return e, nil
}
