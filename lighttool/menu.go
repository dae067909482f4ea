package lighttool

import (
	"errors"
	"fmt"
)

var ErrBadHighlightTable = errors.New("lighttool: invalid highlight table")

// Highlighter toggles the highlight on one menu slot.
type Highlighter interface {
	SetHighlighted(index int, on bool)
}

// HighlightTable maps each selectable kind to the menu slot that
// highlights it.
type HighlightTable map[Kind]int

// DefaultHighlightTable lays the kinds out in the Kinds order.
func DefaultHighlightTable() HighlightTable {
	table := make(HighlightTable, len(Kinds))
	for i, k := range Kinds {
		table[k] = i
	}
	return table
}

// Validate checks every slot index is in [0, slots) and used once.
func (t HighlightTable) Validate(slots int) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty", ErrBadHighlightTable)
	}
	seen := make(map[int]Kind, len(t))
	for k, idx := range t {
		if idx < 0 || idx >= slots {
			return fmt.Errorf("%w: %s -> %d outside [0,%d)", ErrBadHighlightTable, k, idx, slots)
		}
		if other, ok := seen[idx]; ok {
			return fmt.Errorf("%w: %s and %s share slot %d", ErrBadHighlightTable, other, k, idx)
		}
		seen[idx] = k
	}
	return nil
}

// Menu is the light kind picker shown next to the controller.
type Menu struct {
	table    HighlightTable
	slots    int
	hl       Highlighter
	visible  bool
	selected Kind
	onSelect func(Kind)
	onClose  func()
}

func NewMenu(table HighlightTable, slots int, hl Highlighter) (*Menu, error) {
	if err := table.Validate(slots); err != nil {
		return nil, err
	}
	copied := make(HighlightTable, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &Menu{table: copied, slots: slots, hl: hl, selected: Point}, nil
}

// OnSelect sets the callback that receives the chosen kind.
func (m *Menu) OnSelect(fn func(Kind)) {
	m.onSelect = fn
}

// OnClose sets the callback run when the menu asks to close.
func (m *Menu) OnClose(fn func()) {
	m.onClose = fn
}

// Bind wires the menu to an interactor.
func (m *Menu) Bind(it *Interactor) {
	if it == nil {
		return
	}
	m.OnSelect(it.SetSelectedKind)
	m.OnClose(it.Close)
}

// Slot returns the highlight slot for k.
func (m *Menu) Slot(k Kind) (int, bool) {
	idx, ok := m.table[k]
	return idx, ok
}

// KindAt returns the kind highlighted by slot.
func (m *Menu) KindAt(slot int) (Kind, bool) {
	for k, idx := range m.table {
		if idx == slot {
			return k, true
		}
	}
	return 0, false
}

// Slots is the number of highlight slots.
func (m *Menu) Slots() int {
	return m.slots
}

func (m *Menu) Selected() Kind {
	return m.selected
}

// Select reports k to the callback and highlights exactly its slot. Kinds
// without a slot are ignored, leaving the selection and highlights as they
// were.
func (m *Menu) Select(k Kind) {
	target, ok := m.table[k]
	if !ok {
		return
	}
	m.selected = k
	if m.onSelect != nil {
		m.onSelect(k)
	}
	if m.hl == nil {
		return
	}
	for i := 0; i < m.slots; i++ {
		m.hl.SetHighlighted(i, i == target)
	}
}

func (m *Menu) Close() {
	if m.onClose != nil {
		m.onClose()
	}
}

func (m *Menu) Visible() bool {
	return m.visible
}

func (m *Menu) SetVisible(v bool) {
	m.visible = v
}
