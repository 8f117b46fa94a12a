package state

// snapshot is the single undo slot.
type snapshot struct {
	markup string
	ok     bool
}

const (
	hiddenStroke = "stroke:lightpink"
	hiddenFill   = "fill:lightpink"
)

// Backup stores the current fragment in the undo slot, replacing any
// previous snapshot.
func (b *Board) Backup() {
	b.snap = snapshot{markup: b.ws.Markup(false), ok: true}
}

// CanUndo reports whether the undo slot holds a snapshot.
func (b *Board) CanUndo() bool { return b.snap.ok }

// Undo restores the last snapshot and empties the slot. It reports false,
// leaving the board unchanged, when there is nothing to undo.
func (b *Board) Undo() bool {
	if !b.snap.ok {
		b.notify(LevelInfo, "Nothing to undo yet")
		return false
	}
	nodes, err := ParseMarkup(b.snap.markup)
	if err != nil {
		b.log.Error("undo snapshot unreadable", "err", err)
		b.snap = snapshot{}
		return false
	}
	b.snap = snapshot{}
	b.ws.replace(nodes)
	b.pending = nil
	b.reconcile()
	b.Resets(true)
	b.log.Debug("undo", "nodes", len(nodes))
	b.notify(LevelInfo, "Undo goes back one step only")
	b.touch()
	return true
}

// Hide marks a node for removal by the eraser. The node stays visible in a
// highlight color until RemoveHidden runs.
func (b *Board) Hide(n *Node) {
	if n == nil || n.Dummy {
		return
	}
	for _, p := range b.pending {
		if p == n {
			return
		}
	}
	if n.stroked() {
		n.Style = hiddenStroke
	} else {
		n.Style = hiddenFill
	}
	b.pending = append(b.pending, n)
	b.refresh()
}

// Hidden returns the nodes waiting for removal.
func (b *Board) Hidden() []*Node { return b.pending }

// RemoveHidden deletes every node marked by Hide as one undoable step and
// returns how many were removed.
func (b *Board) RemoveHidden() int {
	if len(b.pending) == 0 {
		return 0
	}
	b.Backup()
	pending := b.pending
	b.pending = nil
	for _, n := range pending {
		n.Style = ""
		b.ws.remove(n)
		b.tombstone(n)
	}
	b.log.Debug("erased", "nodes", len(pending))
	b.clearNotice()
	b.touch()
	return len(pending)
}

// Resets strips transient styling. With clearPending
// the pending line points and the pending arch are discarded as well.
func (b *Board) Resets(clearPending bool) {
	for _, n := range b.ws.nodes {
		n.Style = ""
	}
	if clearPending {
		b.linePoints = nil
		b.dummy = nil
		b.ws.removeDummies()
	}
}
