package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/drag"
	"github.com/vango-go/sortable/pkg/reactive"
)

func renderItem(doc *dom.Document, s string) *dom.Element {
	li := doc.CreateElement("li")
	li.AddClass("sortable-element")
	li.SetText(s)
	li.SetBox(dom.Rect{Width: 100, Height: 40})
	return li
}

func newDoc() (*dom.Document, *dom.Element) {
	doc := dom.NewDocument()
	ul := doc.CreateElement("ul")
	doc.Body().AppendChild(ul)
	doc.SetLayout(ul, dom.StackLayout{})
	return doc, ul
}

func texts(container *dom.Element) []string {
	var out []string
	for _, c := range container.Children() {
		if c.HasClass(drag.DefaultProxyClass) {
			continue
		}
		out = append(out, c.Text())
	}
	return out
}

func pointer(doc *dom.Document, typ string, x, y float64) {
	doc.Pointer(typ, dom.Point{X: x, Y: y}, dom.ButtonMain)
}

func TestBindRendersAndLaysOut(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "b", "c"})
	l := Bind(doc, ul, items, &Options[string]{Render: renderItem})
	defer l.Close()

	if diff := cmp.Diff([]string{"a", "b", "c"}, texts(ul)); diff != "" {
		t.Errorf("rendered mismatch (-want +got):\n%s", diff)
	}
	if got := l.Element("c").Box().Top; got != 80 {
		t.Errorf("c top = %v, want 80", got)
	}
	if n := l.Element("a").ListenerCount("mousedown"); n != 1 {
		t.Errorf("a listeners = %d, want 1", n)
	}
}

func TestDragReordersCollection(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "b", "c"})
	var hooks [][2]int
	l := Bind(doc, ul, items, &Options[string]{
		Render:    renderItem,
		OnReorder: func(from, to int) { hooks = append(hooks, [2]int{from, to}) },
	})
	defer l.Close()

	a := l.Element("a")
	pointer(doc, dom.EventMouseDown, 50, 20)
	pointer(doc, dom.EventMouseMove, 50, 60)

	if diff := cmp.Diff([]string{"b", "a", "c"}, items.Peek()); diff != "" {
		t.Errorf("after first move (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, texts(ul)); diff != "" {
		t.Errorf("DOM after first move (-want +got):\n%s", diff)
	}
	if got := a.Box().Top; got != 40 {
		t.Errorf("a top after reflow = %v, want 40", got)
	}

	pointer(doc, dom.EventMouseMove, 50, 100)
	pointer(doc, dom.EventMouseUp, 50, 100)

	if diff := cmp.Diff([]string{"b", "c", "a"}, items.Peek()); diff != "" {
		t.Errorf("final order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]int{{0, 1}, {1, 2}}, hooks); diff != "" {
		t.Errorf("OnReorder calls (-want +got):\n%s", diff)
	}
	if l.Controller().State() != drag.Idle {
		t.Error("controller still dragging")
	}
	if n := len(ul.Children()); n != 3 {
		t.Errorf("children after drag = %d, want 3", n)
	}
}

func TestRefreshOnCollectionChange(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "b"})
	l := Bind(doc, ul, items, &Options[string]{Render: renderItem})
	defer l.Close()

	if l.refreshes != 1 {
		t.Fatalf("refreshes after bind = %d, want 1", l.refreshes)
	}

	l.Reorder(0, 1)
	if l.refreshes != 1 {
		t.Errorf("pure reorder refreshed: %d", l.refreshes)
	}

	reactive.Append(items, "c")
	if l.refreshes != 2 {
		t.Errorf("append did not refresh: %d", l.refreshes)
	}
	if n := l.Element("c").ListenerCount("mousedown"); n != 1 {
		t.Errorf("new item listeners = %d, want 1", n)
	}

	reactive.RemoveAt(items, 0)
	if l.refreshes != 3 {
		t.Errorf("remove did not refresh: %d", l.refreshes)
	}
	if diff := cmp.Diff([]string{"a", "c"}, texts(ul)); diff != "" {
		t.Errorf("DOM after remove (-want +got):\n%s", diff)
	}
}

func TestReplacedItemIsArmed(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "b", "c"})
	l := Bind(doc, ul, items, &Options[string]{Render: renderItem})
	defer l.Close()

	items.Set([]string{"a", "b", "z"})
	if l.refreshes != 2 {
		t.Errorf("same-length replace refreshes = %d, want 2", l.refreshes)
	}
	if l.Element("c") != nil {
		t.Error("c still rendered")
	}
	z := l.Element("z")
	if n := z.ListenerCount("mousedown"); n != 1 {
		t.Fatalf("z listeners = %d, want 1", n)
	}

	pointer(doc, dom.EventMouseDown, 50, 100)
	if l.Controller().State() != drag.Dragging || l.Controller().Active() != z {
		t.Fatalf("mousedown on z: state %v", l.Controller().State())
	}
	pointer(doc, dom.EventMouseMove, 50, 20)
	pointer(doc, dom.EventMouseUp, 50, 20)
	if diff := cmp.Diff([]string{"z", "a", "b"}, items.Peek()); diff != "" {
		t.Errorf("order after drag (-want +got):\n%s", diff)
	}
	if l.refreshes != 2 {
		t.Errorf("drag reorders refreshed: %d, want 2", l.refreshes)
	}
}

func TestCustomReorderHandler(t *testing.T) {
	tests := []struct {
		name  string
		apply bool
		want  []string
	}{
		{"skip default", false, []string{"a", "b", "c"}},
		{"run default", true, []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ul := newDoc()
			items := reactive.NewSignal([]string{"a", "b", "c"})
			handled, hooked := 0, 0
			l := Bind(doc, ul, items, &Options[string]{
				Render: renderItem,
				Reorder: func(from, to int, apply func()) {
					handled++
					if tt.apply {
						apply()
					}
				},
				OnReorder: func(int, int) { hooked++ },
			})
			defer l.Close()

			pointer(doc, dom.EventMouseDown, 50, 20)
			pointer(doc, dom.EventMouseMove, 50, 100)
			pointer(doc, dom.EventMouseUp, 50, 100)

			if diff := cmp.Diff(tt.want, items.Peek()); diff != "" {
				t.Errorf("order (-want +got):\n%s", diff)
			}
			if handled != 1 || hooked != 1 {
				t.Errorf("handled = %d hooked = %d, want 1 and 1", handled, hooked)
			}
		})
	}
}

func TestReorderInsideOpenBatch(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "b", "c"})
	l := Bind(doc, ul, items, &Options[string]{Render: renderItem})
	defer l.Close()

	reactive.Batch(func() {
		l.Reorder(2, 0)
		if diff := cmp.Diff([]string{"c", "a", "b"}, items.Peek()); diff != "" {
			t.Errorf("value inside batch (-want +got):\n%s", diff)
		}
		if got := texts(ul)[0]; got != "a" {
			t.Errorf("DOM re-rendered before the batch closed: first = %q", got)
		}
	})
	if got := texts(ul)[0]; got != "c" {
		t.Errorf("DOM after batch: first = %q, want c", got)
	}
}

func TestReorderSameIndex(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "b"})
	runs := 0
	e := reactive.CreateEffect(func() reactive.Cleanup {
		_ = items.Get()
		runs++
		return nil
	})
	defer e.Dispose()
	l := Bind(doc, ul, items, nil)
	defer l.Close()

	l.Reorder(1, 1)
	if runs != 1 {
		t.Errorf("from == to notified subscribers")
	}
}

func TestBindWithoutRenderLeavesDOM(t *testing.T) {
	doc, ul := newDoc()
	for _, s := range []string{"x", "y"} {
		ul.AppendChild(renderItem(doc, s))
	}
	items := reactive.NewSignal([]string{"x", "y"})
	l := Bind(doc, ul, items, nil)
	defer l.Close()

	l.Reorder(0, 1)
	if diff := cmp.Diff([]string{"y", "x"}, items.Peek()); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, texts(ul)); diff != "" {
		t.Errorf("DOM changed without Render (-want +got):\n%s", diff)
	}
	if n := ul.Children()[1].ListenerCount("touchstart"); n != 1 {
		t.Errorf("pre-rendered item listeners = %d, want 1", n)
	}
}

func TestDuplicateKeys(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "a", "b"})
	l := Bind(doc, ul, items, &Options[string]{Render: renderItem})
	defer l.Close()

	if diff := cmp.Diff([]string{"a", "a", "b"}, texts(ul)); diff != "" {
		t.Errorf("rendered (-want +got):\n%s", diff)
	}
}

func TestCloseReleases(t *testing.T) {
	doc, ul := newDoc()
	items := reactive.NewSignal([]string{"a", "b"})
	l := Bind(doc, ul, items, &Options[string]{Render: renderItem})
	a := l.Element("a")

	pointer(doc, dom.EventMouseDown, 50, 20)
	l.Close()

	if n := items.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
	if n := a.ListenerCount("mousedown"); n != 0 {
		t.Errorf("listeners after Close = %d", n)
	}
	if !doc.Selectable() || doc.ListenerCount("mousemove") != 0 {
		t.Error("Close left the drag session open")
	}

	reactive.Append(items, "c")
	if l.Element("c") != nil {
		t.Error("closed list rendered a new item")
	}
}

func TestStructItemsWithKey(t *testing.T) {
	type row struct {
		ID    int
		Label string
	}
	doc, ul := newDoc()
	items := reactive.NewSignal([]row{{1, "one"}, {2, "two"}})
	l := Bind(doc, ul, items, &Options[row]{
		Key:    func(r row) string { return r.Label },
		Render: func(doc *dom.Document, r row) *dom.Element { return renderItem(doc, r.Label) },
		Drag:   drag.Options{Items: "li"},
	})
	defer l.Close()

	pointer(doc, dom.EventTouchStart, 10, 60)
	pointer(doc, dom.EventTouchMove, 10, 10)
	pointer(doc, dom.EventTouchEnd, 10, 10)

	if got := items.Peek()[0].ID; got != 2 {
		t.Errorf("first ID = %d, want 2", got)
	}
}
