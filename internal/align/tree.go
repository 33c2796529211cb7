package align

import (
	"fmt"
	"strings"

	"github.com/roach88/execdiff/internal/model"
)

// NodeKind classifies nodes in a screenshot comparison tree.
type NodeKind string

const (
	NodeRoot     NodeKind = "root"
	NodeTestRun  NodeKind = "test_run"
	NodeCompound NodeKind = "compound"
	NodeAction   NodeKind = "action"
	NodePath     NodeKind = "path"
	NodeWrapper  NodeKind = "wrapper"
)

// Attachment is screenshot content attached to a cell.
type Attachment struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ScreenshotFunc fetches the screenshot for a step. A nil attachment with a
// nil error means the step has no screenshot.
type ScreenshotFunc func(stepID string) (*Attachment, error)

// Cell is one sub-step of an action node: one source's view of the step.
type Cell struct {
	SourceID   string       `json:"source_id,omitempty"`
	StepID     string       `json:"step_id,omitempty"`
	Name       string       `json:"name,omitempty"`
	Status     model.Status `json:"status,omitempty"`
	DurationMs int64        `json:"duration_ms"`
	DeltaMs    int64        `json:"delta_ms"`
	Empty      bool         `json:"empty"`
	Screenshot *Attachment  `json:"screenshot,omitempty"`
}

// Node is a node of the screenshot comparison tree.
// Only action nodes carry cells.
type Node struct {
	Name     string   `json:"name"`
	Kind     NodeKind `json:"kind"`
	Children []*Node  `json:"children,omitempty"`
	Cells    []Cell   `json:"cells,omitempty"`

	key string
}

// group describes where an action row hangs in the tree.
type group struct {
	key  string
	name string
	kind NodeKind
	path string
}

// BuildTree regroups the rows of a two-source matrix under their owning
// ancestors. Rows are visited in matrix order; every row with the same group
// ancestor accumulates under one group node, placed where that ancestor first
// appears, and rows sharing a collapsed path share one path node inside it.
//
// fetch is called once per populated slot; pass nil to skip screenshot content.
func BuildTree(m *Matrix, fetch ScreenshotFunc) ([]*Node, error) {
	if m.Width != 2 {
		return nil, fmt.Errorf("build tree: %w (got %d)", ErrNotPairwise, m.Width)
	}

	nodes := []*Node{}
	groups := make(map[string]*Node)
	paths := make(map[string]*Node)
	for _, row := range m.Rows {
		first := row.First()
		if first == nil {
			continue
		}

		g, err := groupFor(first.Payload)
		if err != nil {
			return nil, fmt.Errorf("build tree: %w", err)
		}

		action, err := actionNode(row, first, fetch)
		if err != nil {
			return nil, fmt.Errorf("build tree: %w", err)
		}

		parent, ok := groups[g.key]
		if !ok {
			parent = &Node{Name: g.name, Kind: g.kind, key: g.key}
			groups[g.key] = parent
			nodes = append(nodes, parent)
		}

		if g.path == "" {
			parent.Children = append(parent.Children, action)
			continue
		}

		pathKey := g.key + "\x00" + g.path
		pn, ok := paths[pathKey]
		if !ok {
			pn = &Node{Name: g.path, Kind: NodePath, key: pathKey}
			paths[pathKey] = pn
			parent.Children = append(parent.Children, pn)
		}
		pn.Children = append(pn.Children, action)
	}

	return nodes, nil
}

// actionNode builds the node for one row with one cell per slot.
func actionNode(row *Row, first *Record, fetch ScreenshotFunc) (*Node, error) {
	node := &Node{
		Name:  first.Payload.Name,
		Kind:  NodeAction,
		Cells: make([]Cell, len(row.Slots)),
	}
	for k, s := range row.Slots {
		if s.Empty() {
			node.Cells[k] = Cell{Empty: true}
			continue
		}
		step := s.Record.Payload
		cell := Cell{
			SourceID:   s.Record.SourceID,
			StepID:     step.ID,
			Name:       step.Name,
			Status:     step.Status,
			DurationMs: step.DurationMs,
			DeltaMs:    s.DeltaMs,
		}
		if fetch != nil {
			shot, err := fetch(step.ID)
			if err != nil {
				return nil, fmt.Errorf("screenshot for step %s: %w", step.ID, err)
			}
			cell.Screenshot = shot
		}
		node.Cells[k] = cell
	}
	return node, nil
}

// groupFor picks the group ancestor for a step.
//
// A single ancestor is the group. With several, the closest non-compound
// ancestor is the group and the compound ancestors skipped before it collapse
// into a path (outermost first); if every ancestor is compound the outermost
// one is the group. A step without ancestors goes under a nameless wrapper.
func groupFor(step model.Step) (group, error) {
	if len(step.Ancestors) == 0 {
		if step.ParentID != "" {
			return group{}, &MissingAncestorsError{StepID: step.ID, ParentID: step.ParentID}
		}
		return group{kind: NodeWrapper, key: "\x00wrapper"}, nil
	}

	top := len(step.Ancestors) - 1
	for k, a := range step.Ancestors {
		if !a.Kind.IsCompound() {
			top = k
			break
		}
	}

	skipped := make([]string, 0, top)
	for k := top - 1; k >= 0; k-- {
		skipped = append(skipped, step.Ancestors[k].Name)
	}

	a := step.Ancestors[top]
	kind := NodeAction
	if a.Kind.IsCompound() {
		kind = NodeCompound
	}
	return group{
		key:  a.Fingerprint(),
		name: a.Name,
		kind: kind,
		path: strings.Join(skipped, PathSeparator),
	}, nil
}
