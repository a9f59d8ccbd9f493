package replay

import (
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/pkg/binding"
	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/drag"
	"github.com/vango-go/sortable/pkg/reactive"
)

// Transcript records what a scenario did.
type Transcript struct {
	Scenario string
	Steps    []StepResult
	Reorders []Reorder
	Order    []string
	State    drag.State
}

// StepResult is the outcome of one step.
type StepResult struct {
	Step Step

	// Target is the label of the item under the pointer, empty when the
	// pointer hit no item.
	Target   string
	Reorders []Reorder
	State    drag.State
}

// String formats the result as one transcript line.
func (r StepResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-22s", r.Step.String())
	if r.Target != "" {
		fmt.Fprintf(&b, " on %q", r.Target)
	}
	for _, ro := range r.Reorders {
		fmt.Fprintf(&b, " reorder %s", ro)
	}
	fmt.Fprintf(&b, " [%s]", r.State)
	return b.String()
}

// Summary returns the final order and reorder count on one line.
func (t *Transcript) Summary() string {
	return fmt.Sprintf("%s: %d steps, %d reorders, order [%s], %s",
		t.Scenario, len(t.Steps), len(t.Reorders), strings.Join(t.Order, ", "), t.State)
}

// listLayout stacks the items and places each item's handle strip at its
// leading edge.
type listLayout struct {
	stack       dom.StackLayout
	handleWidth float64
}

// Arrange implements dom.Layout.
func (l listLayout) Arrange(container *dom.Element) {
	l.stack.Arrange(container)
	for _, item := range container.Children() {
		if item.Absolute() {
			continue
		}
		b := item.Box()
		if h := item.Query(".sortable-handle"); h != nil {
			h.SetBox(dom.Rect{Left: b.Left, Top: b.Top, Width: l.handleWidth, Height: b.Height})
		}
	}
}

// Run replays sc on a fresh document and checks its expectations. The
// transcript is returned even when an expectation fails. Run uses the
// calling goroutine's reactive state and releases it before returning.
func Run(sc *Scenario, logger *slog.Logger) (*Transcript, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "replay", "scenario", sc.Name)
	defer reactive.Release()

	tr := &Transcript{Scenario: sc.Name}
	var stepReorders []Reorder

	doc := dom.NewDocument()
	container := doc.CreateElement("ul")
	container.AddClass("sortable")
	doc.Body().AppendChild(container)
	container.SetBox(dom.Rect{Left: sc.Layout.Origin.X, Top: sc.Layout.Origin.Y})
	doc.SetLayout(container, listLayout{
		stack:       dom.StackLayout{Axis: sc.Layout.Axis, Gap: sc.Layout.Gap},
		handleWidth: sc.Layout.HandleWidth,
	})

	items := reactive.NewSignal(slices.Clone(sc.Items))
	opts := sc.Options
	opts.Logger = logger
	list := binding.Bind(doc, container, items, &binding.Options[string]{
		Drag: opts,
		OnReorder: func(from, to int) {
			r := Reorder{From: from, To: to}
			tr.Reorders = append(tr.Reorders, r)
			stepReorders = append(stepReorders, r)
		},
		Render: func(doc *dom.Document, item string) *dom.Element {
			el := doc.MustParse(`<li class="sortable-element">` +
				`<span class="sortable-handle"></span>` +
				`<span class="sortable-label">` + html.EscapeString(item) + `</span></li>`)
			el.SetBox(dom.Rect{Width: sc.Layout.Width, Height: sc.Layout.Height})
			return el
		},
	})
	defer list.Close()
	ctrl := list.Controller()

	for _, step := range sc.Steps {
		stepReorders = nil
		res := StepResult{Step: step}

		switch {
		case step.Action.Pointer():
			res.Target = itemAt(ctrl, step.At)
			doc.Pointer(pointerEvents[step.Action], step.At, step.Button)

		case step.Action == ActionAppend:
			reactive.Append(items, step.Item)

		case step.Action == ActionRemove:
			if n := len(items.Peek()); step.Index < 0 || step.Index >= n {
				return tr, sc.errAtLine(errors.CodeScenarioStep, step.Line, step.Column).
					WithDetailf("remove %d is out of range for %d items", step.Index, n)
			}
			reactive.RemoveAt(items, step.Index)

		case step.Action == ActionRefresh:
			ctrl.Refresh()
		}

		res.Reorders = stepReorders
		res.State = ctrl.State()
		tr.Steps = append(tr.Steps, res)
		logger.Debug("step", "line", step.Line, "step", res.String())
	}

	tr.Order = slices.Clone(items.Peek())
	tr.State = ctrl.State()
	return tr, sc.check(tr)
}

// itemAt returns the label of the item whose box contains p. The proxy is
// not an item, so this sees through it.
func itemAt(ctrl *drag.Controller, p dom.Point) string {
	for _, item := range ctrl.Items() {
		if !item.Box().Contains(p) {
			continue
		}
		if label := item.Query(".sortable-label"); label != nil {
			return label.Text()
		}
		return strings.TrimSpace(item.Text())
	}
	return ""
}

// check compares tr with the scenario's expectations.
func (sc *Scenario) check(tr *Transcript) error {
	e := &sc.Expect
	if e.order != nil && !slices.Equal(tr.Order, e.Order) {
		return sc.errAt(errors.CodeOrderMismatch, e.order).
			WithDetailf("got [%s], want [%s]", strings.Join(tr.Order, ", "), strings.Join(e.Order, ", "))
	}
	if e.reorders != nil && !slices.Equal(tr.Reorders, e.Reorders) {
		return sc.errAt(errors.CodeReorderMismatch, e.reorders).
			WithDetailf("got %s, want %s", formatReorders(tr.Reorders), formatReorders(e.Reorders))
	}
	if e.state != nil && tr.State != e.State {
		return sc.errAt(errors.CodeStateMismatch, e.state).
			WithDetailf("got %s, want %s", tr.State, e.State).
			WithSuggestion("A drag that never sees up or touchend stays dragging")
	}
	return nil
}

func formatReorders(rs []Reorder) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
