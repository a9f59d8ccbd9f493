// Package replay runs scripted drag sessions against a laid-out list.
//
// A scenario names the items, how they are laid out, the drag options, a
// list of steps and what should hold afterwards:
//
//	name: drag first item below second
//	items: [Apples, Bread, Cheese]
//	layout:
//	  axis: vertical
//	  size: [200, 40]
//	  gap: 0
//	  origin: [0, 0]
//	  handle: 20
//	options:
//	  handle: .sortable-handle
//	  lockX: true
//	steps:
//	  - down: [10, 10]
//	  - move: [10, 50]
//	  - up: [10, 50]
//	  - append: Dates
//	  - remove: 0
//	  - refresh
//	expect:
//	  order: [Apples, Cheese, Dates]
//	  reorders: [[0, 1]]
//	  state: idle
//
// Positions are in the list's offset space. Pointer steps take [x, y] or
// [x, y, button]. Each item is rendered as
//
//	<li class="sortable-element"><span class="sortable-handle"></span><span class="sortable-label">…</span></li>
//
// and the handle span covers the first layout.handle pixels of the item.
//
// JSON scenarios are accepted too. Scenarios load from files or, through
// Loader.S3, from s3://bucket/key. Expectation failures are
// internal/errors values located at the failing expect key.
package replay
