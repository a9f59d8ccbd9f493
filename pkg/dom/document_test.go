package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDispatchBubbles(t *testing.T) {
	doc, ul, items := newList(t, 2)
	var order []string

	items[0].On("mousedown", func(ev *Event) { order = append(order, "li") })
	ul.On("mousedown", func(ev *Event) { order = append(order, "ul") })
	doc.On("mousedown", func(ev *Event) {
		if ev.CurrentTarget != nil {
			t.Error("CurrentTarget should be nil at document level")
		}
		order = append(order, "document")
	})

	doc.Dispatch(&Event{Type: "mousedown", Target: items[0]})

	if diff := cmp.Diff([]string{"li", "ul", "document"}, order); diff != "" {
		t.Errorf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchStopPropagation(t *testing.T) {
	doc, ul, items := newList(t, 1)
	var calls []string

	items[0].On("mousedown", func(ev *Event) {
		calls = append(calls, "first")
		ev.StopPropagation()
	})
	items[0].On("mousedown", func(ev *Event) { calls = append(calls, "second") })
	ul.On("mousedown", func(ev *Event) { calls = append(calls, "ul") })
	doc.On("mousedown", func(ev *Event) { calls = append(calls, "document") })

	ev := &Event{Type: "mousedown", Target: items[0]}
	doc.Dispatch(ev)

	if diff := cmp.Diff([]string{"first", "second"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !ev.PropagationStopped() {
		t.Error("PropagationStopped() = false")
	}
}

func TestHandleRemove(t *testing.T) {
	doc, _, items := newList(t, 1)
	calls := 0
	h := items[0].On("mousedown touchstart", func(ev *Event) { calls++ })

	if n := items[0].ListenerCount("touchstart"); n != 1 {
		t.Errorf("ListenerCount(touchstart) = %d, want 1", n)
	}
	doc.Dispatch(&Event{Type: "touchstart", Target: items[0]})
	h.Remove()
	h.Remove()
	doc.Dispatch(&Event{Type: "mousedown", Target: items[0]})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if h.Active() {
		t.Error("Active() = true after Remove")
	}
	if n := items[0].ListenerCount("mousedown"); n != 0 {
		t.Errorf("ListenerCount(mousedown) = %d, want 0", n)
	}
	Handle{}.Remove()
}

func TestListenerAddedDuringDispatchDoesNotFire(t *testing.T) {
	doc, _, items := newList(t, 1)
	late := 0
	doc.On("mouseup", func(ev *Event) {
		doc.On("mouseup", func(ev *Event) { late++ })
	})
	doc.Dispatch(&Event{Type: "mouseup", Target: items[0]})
	if late != 0 {
		t.Errorf("listener added during dispatch ran %d times", late)
	}
}

func TestSelectable(t *testing.T) {
	doc := NewDocument()
	if !doc.Selectable() {
		t.Error("new document should be selectable")
	}
	doc.SetSelectable(false)
	if doc.Selectable() || doc.Body().Attr("unselectable") != "on" {
		t.Error("SetSelectable(false) did not disable selection")
	}
	doc.SetSelectable(true)
	if !doc.Selectable() || doc.Body().Attr("unselectable") != "off" {
		t.Error("SetSelectable(true) did not enable selection")
	}
}

func TestStackLayoutAndElementAt(t *testing.T) {
	doc, ul, items := newList(t, 3)
	for _, it := range items {
		it.SetBox(Rect{Width: 200, Height: 40})
	}
	ul.SetBox(Rect{Left: 0, Top: 0, Width: 200, Height: 140})
	doc.SetLayout(ul, StackLayout{Gap: 10})
	doc.Reflow()

	wantTops := []float64{0, 50, 100}
	for i, it := range items {
		if got := it.Box().Top; got != wantTops[i] {
			t.Errorf("item %d top = %v, want %v", i, got, wantTops[i])
		}
	}

	if got := doc.ElementAt(Point{X: 10, Y: 60}); got != items[1] {
		t.Errorf("ElementAt(10,60) = %s, want item 1", got.HID())
	}
	if got := doc.ElementAt(Point{X: 10, Y: 45}); got != ul {
		t.Errorf("ElementAt in gap = %s, want ul", got.HID())
	}
	if got := doc.ElementAt(Point{X: 500, Y: 500}); got != doc.Body() {
		t.Errorf("ElementAt outside = %s, want body", got.HID())
	}
}

func TestStackLayoutSkipsAbsolute(t *testing.T) {
	doc, ul, items := newList(t, 2)
	for _, it := range items {
		it.SetBox(Rect{Width: 100, Height: 20})
	}
	proxy := doc.CreateElement("li")
	proxy.SetStyle("position", "absolute")
	proxy.SetBox(Rect{Left: 7, Top: 7, Width: 100, Height: 20})
	ul.InsertChild(0, proxy)

	StackLayout{Axis: Horizontal}.Arrange(ul)

	if got := proxy.Box().Left; got != 7 {
		t.Errorf("absolute element moved: left = %v", got)
	}
	if got := items[1].Box().Left; got != 100 {
		t.Errorf("item 1 left = %v, want 100", got)
	}
}

func TestPointerFillsOffset(t *testing.T) {
	doc, _, items := newList(t, 1)
	items[0].SetBox(Rect{Left: 10, Top: 20, Width: 50, Height: 50})

	var got *Event
	items[0].On("touchstart", func(ev *Event) { got = ev })
	doc.Pointer("touchstart", Point{X: 15, Y: 30}, ButtonMain)

	if got == nil {
		t.Fatal("listener not called")
	}
	if want := (Point{X: 5, Y: 10}); got.Offset != want {
		t.Errorf("Offset = %+v, want %+v", got.Offset, want)
	}
	if !got.IsTouch() || !got.IsPrimary() {
		t.Error("touchstart should be a primary touch event")
	}
	if want := (Point{X: 15, Y: 30}); got.Point() != want {
		t.Errorf("Point() = %+v, want %+v", got.Point(), want)
	}
}

func TestObserve(t *testing.T) {
	doc, ul, items := newList(t, 3)
	var kinds []MutationKind
	cancel := doc.Observe(func(m Mutation) { kinds = append(kinds, m.Kind) })

	detached := doc.CreateElement("li")
	detached.AddClass("ignored")
	items[0].AddClass("active")
	ul.InsertChild(0, items[2])
	ul.AppendChild(detached)
	detached.Remove()
	items[0].RemoveAttr("class")

	cancel()
	items[1].AddClass("late")

	want := []MutationKind{AttrSet, ChildMoved, ChildInserted, ChildRemoved, AttrRemoved}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestRectContainsStrict(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{5, 5}, true},
		{Point{0, 5}, false},
		{Point{10, 5}, false},
		{Point{5, 0}, false},
		{Point{5, 10}, false},
		{Point{0.001, 9.999}, true},
	}
	for _, tt := range tests {
		if got := r.ContainsStrict(tt.p); got != tt.want {
			t.Errorf("ContainsStrict(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
