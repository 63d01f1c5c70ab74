// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package pathfinder implements §4.F: a streaming matcher that
// consumes XML events in document order and walks a statemachine.Graph
// alongside them, maintaining a checkpoint stack of doctree.PathNode
// frames so that a CHOICE can be backtracked: every event observed
// since a CHOICE was entered is buffered, and if the branch first
// tried turns out not to extend to a later sibling, the matcher
// rewinds its stack and document state to the checkpoint, advances to
// the next branch, and replays the buffered events against it.
// Grounded on schema/walk.go's findOrWalkWorker, generalized from a
// one-shot recursive tree walk to an incremental walk driven by
// push-style parser callbacks.
package pathfinder

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/doctree"
	"github.com/sdcio/xrc/metrics"
	"github.com/sdcio/xrc/statemachine"
	"github.com/sdcio/xrc/xrcerrors"
)

// Sink receives matched document structure as the Matcher resolves it
// against the graph; it is typically a Transducer Writer.
type Sink interface {
	EnterElement(node *doctree.DocumentNode) error
	ExitElement(node *doctree.DocumentNode) error
	Characters(node *doctree.DocumentNode, text string) error
}

// Matcher implements collab.XMLEventSink, resolving each element against
// the graph supplied at construction and forwarding matched nodes to a
// Sink. Not safe for concurrent use; one Matcher serves one document.
type Matcher struct {
	graph *statemachine.Graph
	pool  *doctree.Pool
	sink  Sink

	root    *doctree.DocumentNode
	current *doctree.DocumentNode

	// stack is the checkpoint stack: one persistent frame per currently
	// open ELEMENT plus one per group/substitution container currently
	// being navigated within it. A group frame, once pushed, remains at
	// the top of stack until its own occurs are exhausted or its owning
	// element closes, so the next sibling start_element always resumes
	// from exactly where the previous one left off.
	stack []*doctree.PathNode

	// checkpoints holds one entry per CHOICE currently open and not yet
	// known to be irrevocable, innermost last. replaying suppresses
	// re-recording of events while a checkpoint's buffered history is
	// being replayed against its next branch.
	checkpoints []*choiceCheckpoint
	replaying   bool
}

// choiceCheckpoint is the undo point recorded when the matcher commits
// to the first branch of a CHOICE. If a later event does not extend
// that branch, backtrack rewinds stack and parentDoc back to this
// point, advances frame.BranchIndex, and replay re-feeds tokens to try
// the next branch.
type choiceCheckpoint struct {
	frame      *doctree.PathNode // the CHOICE's own frame
	stackIndex int               // frame's index within m.stack
	parentDoc  *doctree.DocumentNode
	childCount int // len(parentDoc.Children) when this CHOICE was entered
	tokens     []recordedToken
}

type tokenKind int

const (
	tokStart tokenKind = iota
	tokChars
	tokEnd
)

type recordedToken struct {
	kind  tokenKind
	name  collab.QName
	attrs []collab.XMLAttr
	text  string
}

// New returns a Matcher that resolves events against graph and reports
// matched structure to sink, using pool for node allocation.
func New(graph *statemachine.Graph, pool *doctree.Pool, sink Sink) *Matcher {
	return &Matcher{graph: graph, pool: pool, sink: sink}
}

var _ collab.XMLEventSink = (*Matcher)(nil)

func (m *Matcher) StartDocument() error                   { return nil }
func (m *Matcher) StartPrefixMapping(string, string) error { return nil }
func (m *Matcher) EndPrefixMapping(string) error           { return nil }
func (m *Matcher) EndDocument() error                      { return nil }

func (m *Matcher) StartElement(name collab.QName, attrs []collab.XMLAttr) error {
	if m.current == nil {
		return m.startRoot(name, attrs)
	}
	m.record(recordedToken{kind: tokStart, name: name, attrs: attrs})
	return m.enter(name, attrs)
}

func (m *Matcher) startRoot(name collab.QName, attrs []collab.XMLAttr) error {
	if !name.Equal(m.graph.Start.ElementQName) {
		return xrcerrors.New(xrcerrors.NoPathMatches, []string{name.String()}, "root element does not match schema")
	}
	doc := m.pool.AcquireDocumentNode()
	doc.Name = name
	doc.State = m.graph.Start
	doc.Attrs = attrs
	doc.OpenDepth = 0

	frame := m.pool.AcquirePathNode()
	frame.State = m.graph.Start
	m.stack = append(m.stack, frame)

	m.root = doc
	m.current = doc
	return m.sink.EnterElement(doc)
}

func (m *Matcher) Characters(text string) error {
	m.record(recordedToken{kind: tokChars, text: text})
	return m.doCharacters(text)
}

func (m *Matcher) doCharacters(text string) error {
	if m.current == nil {
		return xrcerrors.New(xrcerrors.NoPathMatches, nil, "characters outside any element")
	}
	return m.sink.Characters(m.current, text)
}

func (m *Matcher) EndElement(name collab.QName) error {
	m.record(recordedToken{kind: tokEnd, name: name})
	return m.doEndElement(name)
}

func (m *Matcher) doEndElement(name collab.QName) error {
	if m.current == nil || !m.current.Name.Equal(name) {
		return xrcerrors.New(xrcerrors.NoPathMatches, []string{name.String()}, "mismatched end_element")
	}
	doc := m.current
	depth := doc.OpenDepth

	for len(m.stack) > depth {
		frame := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		m.pool.ReleasePathNode(frame)
	}
	// Any checkpoint opened at or above this depth belongs to a group
	// nested inside the element that is now closing: it can no longer
	// be backtracked into, so drop it along with the frames above.
	for len(m.checkpoints) > 0 && m.checkpoints[len(m.checkpoints)-1].stackIndex >= depth {
		m.checkpoints = m.checkpoints[:len(m.checkpoints)-1]
	}

	if err := m.sink.ExitElement(doc); err != nil {
		return err
	}
	m.current = doc.Parent
	return nil
}

// record appends tok to every currently open checkpoint's buffered
// history, unless it is itself being produced by a replay (replaying a
// checkpoint must not grow any buffer, its own or an ancestor's, with a
// second copy of events already captured on the first pass).
func (m *Matcher) record(tok recordedToken) {
	if m.replaying {
		return
	}
	for _, cp := range m.checkpoints {
		cp.tokens = append(cp.tokens, tok)
	}
}

// enter resolves name against the current content model and commits a
// matched DocumentNode for it. If the direct attempt fails and a CHOICE
// checkpoint is open, it backtracks: rewind to the checkpoint, advance
// to its next untried branch, and replay every event buffered since the
// checkpoint (this call's own name/attrs included, as the last entry)
// against that branch. It keeps advancing branches until one lets the
// whole buffered history replay cleanly, or none remain.
func (m *Matcher) enter(name collab.QName, attrs []collab.XMLAttr) error {
	opened := len(m.checkpoints)
	target, err := m.descend(name)
	// A CHOICE entered while resolving name opened its checkpoint after
	// StartElement recorded this token; seed it so a replay of that
	// checkpoint starts by re-entering name.
	for _, cp := range m.checkpoints[opened:] {
		cp.tokens = append([]recordedToken{{kind: tokStart, name: name, attrs: attrs}}, cp.tokens...)
	}
	if err == nil {
		return m.commit(target, name, attrs)
	}
	for {
		cp, ok := m.backtrack()
		if !ok {
			return err
		}
		rerr := m.replay(cp)
		if rerr == nil {
			return nil
		}
		err = rerr
	}
}

func (m *Matcher) commit(target *statemachine.Node, name collab.QName, attrs []collab.XMLAttr) error {
	doc := m.pool.AcquireDocumentNode()
	doc.Name = name
	doc.State = target
	doc.Attrs = attrs
	doc.OpenDepth = len(m.stack)
	m.current.AddChild(doc)
	m.current = doc

	frame := m.pool.AcquirePathNode()
	frame.State = target
	m.stack = append(m.stack, frame)

	return m.sink.EnterElement(doc)
}

// backtrack advances the innermost open checkpoint to its next branch
// and rewinds matcher state to the point that checkpoint was opened. It
// reports false, popping the checkpoint, once every branch has been
// tried.
func (m *Matcher) backtrack() (*choiceCheckpoint, bool) {
	if len(m.checkpoints) == 0 {
		return nil, false
	}
	cp := m.checkpoints[len(m.checkpoints)-1]
	cp.frame.BranchIndex++
	cp.frame.MatchCount = 0
	if cp.frame.BranchIndex >= len(cp.frame.State.Next) {
		m.checkpoints = m.checkpoints[:len(m.checkpoints)-1]
		return nil, false
	}
	metrics.PathBacktracksTotal.Inc()

	for len(m.stack) > cp.stackIndex+1 {
		top := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		m.pool.ReleasePathNode(top)
	}
	for len(cp.parentDoc.Children) > cp.childCount {
		last := len(cp.parentDoc.Children) - 1
		discarded := cp.parentDoc.Children[last]
		cp.parentDoc.Children = cp.parentDoc.Children[:last]
		m.pool.ReleaseDocumentNode(discarded)
	}
	m.current = cp.parentDoc
	return cp, true
}

// replay re-feeds cp's buffered history through the matcher's normal
// entry points, with recording suspended so the checkpoint (and any
// ancestor checkpoint) isn't re-populated with a duplicate of events it
// already holds.
func (m *Matcher) replay(cp *choiceCheckpoint) error {
	prev := m.replaying
	m.replaying = true
	defer func() { m.replaying = prev }()

	for _, tok := range cp.tokens {
		var err error
		switch tok.kind {
		case tokStart:
			err = m.enter(tok.name, tok.attrs)
		case tokChars:
			err = m.doCharacters(tok.text)
		case tokEnd:
			err = m.doEndElement(tok.name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// descend resolves name against the currently open element's content
// model, starting from the top-of-stack frame and transparently
// entering nested group containers as needed.
func (m *Matcher) descend(name collab.QName) (*statemachine.Node, error) {
	top := m.stack[len(m.stack)-1]
	target, ok := m.match(top, name)
	if !ok {
		return nil, xrcerrors.New(xrcerrors.NoPathMatches, []string{name.String()}, "no matching state for element in current content model")
	}
	return target, nil
}

// match tries to resolve name against frame.State's content, advancing
// frame in place. It returns the matched ELEMENT (or ANY) node on
// success.
func (m *Matcher) match(frame *doctree.PathNode, name collab.QName) (*statemachine.Node, bool) {
	switch frame.State.Kind {
	case statemachine.KindAll:
		return m.matchAll(frame, name)
	default:
		return m.matchOrdered(frame, name)
	}
}

// matchOrdered handles ELEMENT (content owner), SEQUENCE,
// SUBSTITUTION_GROUP, and CHOICE alike: try the edge at BranchIndex
// first; if it is itself a group, descend into its own persistent
// frame; once the current position's occurs are satisfied, advance to
// the next sibling. For a CHOICE this only ever walks forward into the
// first branch that accepts the current element; if that branch later
// turns out not to extend to a sibling the caller has already
// committed to, it is tryEdge's checkpoint (see backtrack/replay above)
// that rewinds and tries the next branch, not this function.
func (m *Matcher) matchOrdered(frame *doctree.PathNode, name collab.QName) (*statemachine.Node, bool) {
	edges := frame.State.Next
	for frame.BranchIndex < len(edges) {
		edge := edges[frame.BranchIndex]
		if node, ok := m.tryEdge(edge, name); ok {
			frame.MatchCount++
			return node, true
		}
		if satisfied(frame.MatchCount, edge.MinOccurs) {
			frame.BranchIndex++
			frame.MatchCount = 0
			continue
		}
		return nil, false
	}
	return nil, false
}

// matchAll tries every not-yet-exhausted child of an ALL group,
// independent of order, since xs:all children may appear in any
// sequence in the instance document. Unlike matchOrdered's single
// monotonic cursor, every member needs its own independent counter and
// (if itself a group) its own persistent sub-frame, since any of them
// may be the next to match regardless of the others' progress.
func (m *Matcher) matchAll(frame *doctree.PathNode, name collab.QName) (*statemachine.Node, bool) {
	edges := frame.State.Next
	for len(frame.Counts) < len(edges) {
		frame.Counts = append(frame.Counts, 0)
		frame.Children = append(frame.Children, nil)
	}
	for i, edge := range edges {
		if edge.MaxOccurs != statemachine.Unbounded && uint64(frame.Counts[i]) >= edge.MaxOccurs {
			continue
		}
		m.ensureMemberFrame(edge, &frame.Children[i])
		if n, ok := m.matchMemberName(edge, frame.Children[i], name); ok {
			frame.Counts[i]++
			return n, true
		}
	}
	return nil, false
}

// ensureMemberFrame lazily creates *slot the first time an ALL
// member that is itself a group is encountered; ELEMENT/ANY members
// need no sub-frame and leave *slot nil.
func (m *Matcher) ensureMemberFrame(edge statemachine.Edge, slot **doctree.PathNode) {
	switch edge.To.Kind {
	case statemachine.KindElement, statemachine.KindAny:
	default:
		if *slot == nil {
			*slot = m.pool.AcquirePathNode()
			(*slot).State = edge.To
		}
	}
}

func (m *Matcher) matchMemberName(edge statemachine.Edge, sub *doctree.PathNode, name collab.QName) (*statemachine.Node, bool) {
	switch edge.To.Kind {
	case statemachine.KindElement:
		if edge.To.ElementQName.Equal(name) {
			return edge.To, true
		}
		return nil, false
	case statemachine.KindAny:
		return edge.To, true
	default:
		return m.match(sub, name)
	}
}

// tryEdge attempts to match name directly against edge.To when
// descending from a SEQUENCE/CHOICE/ELEMENT position (matchOrdered).
// ELEMENT and ANY nodes are leaves from the matcher's point of view
// (ANY accepts any name under its process-contents policy); group and
// substitution-group nodes are transparent and are entered by pushing
// a new persistent frame that becomes the new stack top, so every
// subsequent start_element resumes directly from it without needing a
// separate lookup. Entering a CHOICE additionally opens a checkpoint:
// the choice between its branches is committed to eagerly (the first
// branch whose next edge accepts the current element), but may later
// prove wrong once a sibling event doesn't fit it, so backtrack/replay
// need the undo point this establishes.
func (m *Matcher) tryEdge(edge statemachine.Edge, name collab.QName) (*statemachine.Node, bool) {
	switch edge.To.Kind {
	case statemachine.KindElement:
		if edge.To.ElementQName.Equal(name) {
			return edge.To, true
		}
		return nil, false
	case statemachine.KindAny:
		return edge.To, true
	default: // SEQUENCE, CHOICE, ALL, SUBSTITUTION_GROUP are transparent
		sub := m.pool.AcquirePathNode()
		sub.State = edge.To
		m.stack = append(m.stack, sub)
		if edge.To.Kind == statemachine.KindChoice {
			m.checkpoints = append(m.checkpoints, &choiceCheckpoint{
				frame:      sub,
				stackIndex: len(m.stack) - 1,
				parentDoc:  m.current,
				childCount: len(m.current.Children),
			})
		}
		return m.match(sub, name)
	}
}

func satisfied(matchCount int, min uint64) bool {
	return uint64(matchCount) >= min
}
