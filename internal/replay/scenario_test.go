package replay

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/drag"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	sc, err := Parse("test.yaml", []byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return sc
}

func TestParseFile(t *testing.T) {
	src, err := os.ReadFile("testdata/reorder.yaml")
	if err != nil {
		t.Fatal(err)
	}
	sc, err := Parse("testdata/reorder.yaml", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if sc.Name != "drag first item below second" {
		t.Errorf("Name = %q", sc.Name)
	}
	if diff := cmp.Diff([]string{"Apples", "Bread", "Cheese"}, sc.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	wantLayout := Layout{Axis: dom.Vertical, Width: 200, Height: 40, HandleWidth: DefaultHandleWidth}
	if sc.Layout != wantLayout {
		t.Errorf("Layout = %+v, want %+v", sc.Layout, wantLayout)
	}

	wantSteps := []Step{
		{Action: ActionDown, At: dom.Point{X: 10, Y: 10}, Line: 7, Column: 5},
		{Action: ActionMove, At: dom.Point{X: 10, Y: 50}, Line: 8, Column: 5},
		{Action: ActionUp, At: dom.Point{X: 10, Y: 50}, Line: 9, Column: 5},
	}
	if diff := cmp.Diff(wantSteps, sc.Steps); diff != "" {
		t.Errorf("Steps mismatch (-want +got):\n%s", diff)
	}

	if !sc.Expect.HasChecks() {
		t.Fatal("HasChecks() = false")
	}
	if diff := cmp.Diff([]Reorder{{0, 1}}, sc.Expect.Reorders); diff != "" {
		t.Errorf("Expect.Reorders mismatch (-want +got):\n%s", diff)
	}
	if sc.Expect.State != drag.Idle {
		t.Errorf("Expect.State = %v, want idle", sc.Expect.State)
	}
}

func TestParseDefaults(t *testing.T) {
	sc := mustParse(t, "items: [a]\n")
	if sc.Name != "test.yaml" {
		t.Errorf("Name = %q, want the source name", sc.Name)
	}
	want := Layout{Width: DefaultItemWidth, Height: DefaultItemHeight, HandleWidth: DefaultHandleWidth}
	if sc.Layout != want {
		t.Errorf("Layout = %+v, want %+v", sc.Layout, want)
	}
	if sc.Expect.HasChecks() {
		t.Error("HasChecks() = true for a scenario without expect")
	}
	if len(sc.Steps) != 0 {
		t.Errorf("len(Steps) = %d, want 0", len(sc.Steps))
	}
}

func TestParseStepForms(t *testing.T) {
	sc := mustParse(t, `items: [a, b]
steps:
  - refresh
  - refresh:
  - refresh: {}
  - down: [1, 2, 2]
  - touchstart: [3.5, 4]
  - append: c
  - remove: 1
`)
	want := []Step{
		{Action: ActionRefresh, Line: 3, Column: 5},
		{Action: ActionRefresh, Line: 4, Column: 5},
		{Action: ActionRefresh, Line: 5, Column: 5},
		{Action: ActionDown, At: dom.Point{X: 1, Y: 2}, Button: dom.ButtonSecondary, Line: 6, Column: 5},
		{Action: ActionTouchStart, At: dom.Point{X: 3.5, Y: 4}, Line: 7, Column: 5},
		{Action: ActionAppend, Item: "c", Line: 8, Column: 5},
		{Action: ActionRemove, Index: 1, Line: 9, Column: 5},
	}
	if diff := cmp.Diff(want, sc.Steps); diff != "" {
		t.Errorf("Steps mismatch (-want +got):\n%s", diff)
	}

	strs := []string{"refresh", "refresh", "refresh", "down [1, 2] button 2", "touchstart [3.5, 4]", `append "c"`, "remove 1"}
	for i, s := range sc.Steps {
		if got := s.String(); got != strs[i] {
			t.Errorf("Steps[%d].String() = %q, want %q", i, got, strs[i])
		}
	}
}

func TestParseLayoutAndOptions(t *testing.T) {
	sc := mustParse(t, `items: [a, b]
layout:
  axis: horizontal
  size: [100, 30]
  gap: 8
  origin: [5, 6]
  handle: 0
options:
  handle: .sortable-handle
  lockX: true
  lockY: false
`)
	wantLayout := Layout{
		Axis:   dom.Horizontal,
		Width:  100,
		Height: 30,
		Gap:    8,
		Origin: dom.Point{X: 5, Y: 6},
	}
	if sc.Layout != wantLayout {
		t.Errorf("Layout = %+v, want %+v", sc.Layout, wantLayout)
	}
	if sc.Options.Handle != ".sortable-handle" || !sc.Options.LockX || sc.Options.LockY {
		t.Errorf("Options = %+v", sc.Options)
	}
}

func TestParseExpectForms(t *testing.T) {
	sc := mustParse(t, `items: []
expect:
  order: []
  reorders: []
  state: dragging
`)
	if sc.Expect.Order == nil || len(sc.Expect.Order) != 0 {
		t.Errorf("Order = %#v, want empty non-nil", sc.Expect.Order)
	}
	if sc.Expect.Reorders == nil || len(sc.Expect.Reorders) != 0 {
		t.Errorf("Reorders = %#v, want empty non-nil", sc.Expect.Reorders)
	}
	if sc.Expect.State != drag.Dragging {
		t.Errorf("State = %v, want dragging", sc.Expect.State)
	}
}

func TestParseJSON(t *testing.T) {
	src, err := os.ReadFile("testdata/touch.json")
	if err != nil {
		t.Fatal(err)
	}
	sc, err := Parse("testdata/touch.json", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sc.Steps) != 3 || sc.Steps[0].Action != ActionTouchStart {
		t.Errorf("Steps = %+v", sc.Steps)
	}
	if diff := cmp.Diff([]Reorder{{From: 2, To: 0}}, sc.Expect.Reorders); diff != "" {
		t.Errorf("Reorders mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode string
		wantLine int
		wantText string
	}{
		{
			name:     "empty",
			src:      "",
			wantCode: errors.CodeScenarioParse,
			wantText: "empty",
		},
		{
			name:     "bad yaml",
			src:      "items: [a, b\nsteps: []\n",
			wantCode: errors.CodeScenarioParse,
		},
		{
			name:     "unknown key",
			src:      "items: [a]\nstep:\n  - down: [1, 1]\n",
			wantCode: errors.CodeScenarioParse,
			wantLine: 2,
		},
		{
			name:     "unknown action",
			src:      "items: [a]\nsteps:\n  - down: [1, 1]\n  - drop: [1, 1]\n",
			wantCode: errors.CodeScenarioStep,
			wantLine: 4,
			wantText: `unknown action "drop"`,
		},
		{
			name:     "two actions in one step",
			src:      "items: [a]\nsteps:\n  - {down: [1, 1], up: [1, 1]}\n",
			wantCode: errors.CodeScenarioStep,
			wantLine: 3,
		},
		{
			name:     "pointer without position",
			src:      "items: [a]\nsteps:\n  - move\n",
			wantCode: errors.CodeScenarioStep,
			wantLine: 3,
		},
		{
			name:     "short position",
			src:      "items: [a]\nsteps:\n  - move: [1]\n",
			wantCode: errors.CodeScenarioStep,
			wantLine: 3,
		},
		{
			name:     "remove without integer",
			src:      "items: [a]\nsteps:\n  - remove: first\n",
			wantCode: errors.CodeScenarioStep,
			wantLine: 3,
		},
		{
			name:     "refresh with argument",
			src:      "items: [a]\nsteps:\n  - refresh: [1]\n",
			wantCode: errors.CodeScenarioStep,
			wantLine: 3,
		},
		{
			name:     "steps not a list",
			src:      "items: [a]\nsteps: down\n",
			wantCode: errors.CodeScenarioStep,
			wantLine: 2,
		},
		{
			name:     "bad axis",
			src:      "items: [a]\nlayout:\n  axis: diagonal\n",
			wantCode: errors.CodeScenarioLayout,
			wantLine: 3,
			wantText: "diagonal",
		},
		{
			name:     "zero size",
			src:      "items: [a]\nlayout:\n  size: [0, 40]\n",
			wantCode: errors.CodeScenarioLayout,
		},
		{
			name:     "size arity",
			src:      "items: [a]\nlayout:\n  size: [10]\n",
			wantCode: errors.CodeScenarioLayout,
		},
		{
			name:     "negative gap",
			src:      "items: [a]\nlayout:\n  gap: -1\n",
			wantCode: errors.CodeScenarioLayout,
		},
		{
			name:     "handle wider than item",
			src:      "items: [a]\nlayout:\n  size: [50, 40]\n  handle: 60\n",
			wantCode: errors.CodeScenarioLayout,
		},
		{
			name:     "bad handle selector",
			src:      "items: [a]\noptions:\n  handle: '[['\n",
			wantCode: errors.CodeInvalidHandleSelector,
			wantLine: 3,
		},
		{
			name:     "bad state",
			src:      "items: [a]\nexpect:\n  state: flying\n",
			wantCode: errors.CodeScenarioParse,
			wantLine: 3,
			wantText: "flying",
		},
		{
			name:     "bad reorder",
			src:      "items: [a]\nexpect:\n  reorders: [[1, 2, 3]]\n",
			wantCode: errors.CodeScenarioParse,
			wantLine: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.yaml", []byte(tt.src))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !errors.HasCode(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
			se := errors.FromError(err, "")
			if tt.wantLine > 0 {
				if se.Location == nil {
					t.Fatalf("error has no location: %v", err)
				}
				if se.Location.Line != tt.wantLine {
					t.Errorf("Location.Line = %d, want %d", se.Location.Line, tt.wantLine)
				}
				if se.Location.File != "test.yaml" {
					t.Errorf("Location.File = %q, want test.yaml", se.Location.File)
				}
			}
			if tt.wantText != "" && !strings.Contains(se.Detail, tt.wantText) {
				t.Errorf("Detail = %q, want it to contain %q", se.Detail, tt.wantText)
			}
		})
	}
}

func TestReorderString(t *testing.T) {
	if got := (Reorder{From: 2, To: 0}).String(); got != "2->0" {
		t.Errorf("String() = %q, want %q", got, "2->0")
	}
	if got := formatReorders([]Reorder{{0, 1}, {1, 2}}); got != "[0->1 1->2]" {
		t.Errorf("formatReorders() = %q", got)
	}
}
