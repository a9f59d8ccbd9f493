package dom

// Layout assigns boxes to a container's children.
type Layout interface {
	Arrange(container *Element)
}

// Axis is the flow direction of a StackLayout.
type Axis uint8

const (
	Vertical Axis = iota
	Horizontal
)

// String returns "vertical" or "horizontal".
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// StackLayout stacks in-flow children one after another, starting at the
// container's origin. Each child keeps its own width and height; absolutely
// positioned children are skipped.
type StackLayout struct {
	Axis Axis
	Gap  float64
}

// Arrange implements Layout.
func (l StackLayout) Arrange(container *Element) {
	origin := container.Box().Origin()
	cursor := 0.0
	for _, child := range container.Children() {
		if child.Absolute() {
			continue
		}
		b := child.Box()
		if l.Axis == Horizontal {
			b.Left, b.Top = origin.X+cursor, origin.Y
			cursor += b.Width + l.Gap
		} else {
			b.Left, b.Top = origin.X, origin.Y+cursor
			cursor += b.Height + l.Gap
		}
		child.SetBox(b)
	}
}
