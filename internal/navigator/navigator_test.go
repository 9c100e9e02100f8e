package navigator

import (
	"errors"
	"testing"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/testutil/testlog"
	"github.com/rs/zerolog/log"
)

// Field indexes in the default catalog.
const (
	linkHCIPayload  = 3
	linkCRC         = 4
	hciHandle       = 1
	hciL2CAPPayload = 5
	l2capATTPayload = 2
	attGATTPayload  = 2
	gattCharValue   = 4
	gattServiceUUID = 0
)

func ref(layer catalog.LayerID, i int) FieldRef {
	return FieldRef{Layer: layer, Index: i}
}

func history(ids ...catalog.LayerID) []catalog.LayerID {
	return ids
}

func expectHistory(t *testing.T, n *Navigator, want ...catalog.LayerID) {
	t.Helper()
	s := n.State()
	if len(s.History) != len(want) {
		t.Fatalf("history=%v want %v", s.History, want)
	}
	for i := range want {
		if s.History[i] != want[i] {
			t.Fatalf("history=%v want %v", s.History, want)
		}
	}
	if s.Current != want[len(want)-1] {
		t.Fatalf("current=%s want %s", s.Current, want[len(want)-1])
	}
	if err := Check(n.Catalog(), s); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func drillTo(t *testing.T, n *Navigator, depth int) {
	t.Helper()
	path := []FieldRef{
		ref(catalog.LayerLink, linkHCIPayload),
		ref(catalog.LayerHCI, hciL2CAPPayload),
		ref(catalog.LayerL2CAP, l2capATTPayload),
		ref(catalog.LayerATT, attGATTPayload),
	}
	for i := 0; i < depth; i++ {
		if err := n.Descend(path[i]); err != nil {
			t.Fatalf("descend %s: %v", path[i], err)
		}
	}
}

func TestInitialState(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	expectHistory(t, n, catalog.LayerLink)
	if n.State().Selected != nil {
		t.Fatalf("expected no selection")
	}
	if n.CanGoBack() {
		t.Fatalf("root must not allow going back")
	}
}

func TestDescendFromLinkToHCI(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	if err := n.Descend(ref(catalog.LayerLink, linkHCIPayload)); err != nil {
		t.Fatalf("descend: %v", err)
	}
	expectHistory(t, n, catalog.LayerLink, catalog.LayerHCI)
	if n.State().Selected != nil {
		t.Fatalf("descend must clear selection")
	}
	log.Debug().Msgf("navigator/descend: history=%v", n.State().History)
}

func TestJumpToRootFromL2CAP(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	drillTo(t, n, 2)
	expectHistory(t, n, catalog.LayerLink, catalog.LayerHCI, catalog.LayerL2CAP)

	if err := n.JumpTo(catalog.LayerLink); err != nil {
		t.Fatalf("jump: %v", err)
	}
	expectHistory(t, n, catalog.LayerLink)
}

func TestGoBackFromHCI(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	drillTo(t, n, 1)
	if err := n.GoBack(); err != nil {
		t.Fatalf("go back: %v", err)
	}
	expectHistory(t, n, catalog.LayerLink)
}

func TestSelectTerminalFieldKeepsHistory(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	drillTo(t, n, 1)
	handle := ref(catalog.LayerHCI, hciHandle)
	if err := n.SelectField(handle); err != nil {
		t.Fatalf("select: %v", err)
	}
	s := n.State()
	if s.Selected == nil || *s.Selected != handle {
		t.Fatalf("unexpected selection: %v", s.Selected)
	}
	expectHistory(t, n, catalog.LayerLink, catalog.LayerHCI)
	sel, ok := n.SelectedField()
	if !ok || sel.Field.Name != "Handle" {
		t.Fatalf("unexpected selected field: %+v", sel)
	}
}

func TestDescendTerminalFieldRejectedWithoutChange(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	if err := n.SelectField(ref(catalog.LayerLink, linkCRC)); err != nil {
		t.Fatalf("select: %v", err)
	}
	before := n.State()

	err := n.Descend(ref(catalog.LayerLink, linkCRC))
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.Op != OpDescend || te.Field != linkCRC {
		t.Fatalf("unexpected transition error: %#v", err)
	}
	if !n.State().Equal(before) {
		t.Fatalf("state changed: before=%+v after=%+v", before, n.State())
	}
	log.Debug().Msgf("navigator/descend: terminal rejected err=%v", err)
}

func TestGoBackAtRootRejectedWithoutChange(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	before := n.State()
	err := n.GoBack()
	if !errors.Is(err, ErrAtRoot) {
		t.Fatalf("expected ErrAtRoot, got %v", err)
	}
	if Kind(err) != KindAtRoot {
		t.Fatalf("unexpected kind: %q", Kind(err))
	}
	if !n.State().Equal(before) {
		t.Fatalf("state changed")
	}
}

func TestJumpToLayerNotInHistory(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	drillTo(t, n, 1)
	before := n.State()
	err := n.JumpTo(catalog.LayerATT)
	if !errors.Is(err, ErrNotInHistory) || Kind(err) != KindNotInHistory {
		t.Fatalf("expected ErrNotInHistory, got %v", err)
	}
	if !n.State().Equal(before) {
		t.Fatalf("state changed")
	}
}

func TestDescendRoundTripsWithGoBack(t *testing.T) {
	testlog.Start(t)
	chain := catalog.Default().Chain(catalog.LayerLink)
	for depth := 0; depth < 4; depth++ {
		n := New(catalog.Default())
		drillTo(t, n, depth)
		before := n.State()
		payload := n.VisibleFields().Encapsulating[0].Ref
		if payload.Layer != chain[depth] {
			t.Fatalf("unexpected payload ref %s", payload)
		}
		if err := n.Descend(payload); err != nil {
			t.Fatalf("descend: %v", err)
		}
		if n.State().Depth() != before.Depth()+1 {
			t.Fatalf("descend must grow history by one")
		}
		if err := n.GoBack(); err != nil {
			t.Fatalf("go back: %v", err)
		}
		if !n.State().Equal(before) {
			t.Fatalf("round trip changed state at depth %d: %+v vs %+v", depth, before, n.State())
		}
	}
}

func TestJumpToCurrentOnlyClearsSelectionAndIsIdempotent(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	drillTo(t, n, 4)
	if err := n.SelectField(ref(catalog.LayerGATT, gattServiceUUID)); err != nil {
		t.Fatalf("select: %v", err)
	}
	before := n.State()

	if err := n.JumpTo(catalog.LayerGATT); err != nil {
		t.Fatalf("jump: %v", err)
	}
	once := n.State()
	if once.Selected != nil {
		t.Fatalf("jump must clear selection")
	}
	before.Selected = nil
	if !once.Equal(before) {
		t.Fatalf("jump to current changed more than selection")
	}
	if err := n.JumpTo(catalog.LayerGATT); err != nil {
		t.Fatalf("second jump: %v", err)
	}
	if !n.State().Equal(once) {
		t.Fatalf("jump to current is not idempotent")
	}
}

func TestJumpToSetsHistoryLength(t *testing.T) {
	testlog.Start(t)
	chain := catalog.Default().Chain(catalog.LayerLink)
	for idx, id := range chain {
		n := New(catalog.Default())
		drillTo(t, n, 4)
		if err := n.JumpTo(id); err != nil {
			t.Fatalf("jump %s: %v", id, err)
		}
		if n.State().Depth() != idx+1 {
			t.Fatalf("jump %s: depth=%d want %d", id, n.State().Depth(), idx+1)
		}
		expectHistory(t, n, chain[:idx+1]...)
	}
}

func TestSelectEncapsulatingFieldDescends(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	if err := n.SelectField(ref(catalog.LayerLink, 0)); err != nil {
		t.Fatalf("select preamble: %v", err)
	}
	if err := n.SelectField(ref(catalog.LayerLink, linkHCIPayload)); err != nil {
		t.Fatalf("select payload: %v", err)
	}
	expectHistory(t, n, catalog.LayerLink, catalog.LayerHCI)
	if n.State().Selected != nil {
		t.Fatalf("payload click must navigate, not select")
	}
}

func TestReselectIsIdempotent(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	crc := ref(catalog.LayerLink, linkCRC)
	if err := n.SelectField(crc); err != nil {
		t.Fatalf("select: %v", err)
	}
	once := n.State()
	if err := n.SelectField(crc); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if !n.State().Equal(once) {
		t.Fatalf("reselect changed state")
	}
}

func TestFieldOutsideCurrentLayerRejected(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	cases := []FieldRef{
		ref(catalog.LayerHCI, hciHandle),
		ref(catalog.LayerLink, 99),
		ref(catalog.LayerLink, -1),
	}
	for _, r := range cases {
		if err := n.SelectField(r); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("select %s: expected ErrInvalidTransition, got %v", r, err)
		}
		if err := n.Descend(r); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("descend %s: expected ErrInvalidTransition, got %v", r, err)
		}
	}
	expectHistory(t, n, catalog.LayerLink)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	testlog.Start(t)
	cat := catalog.Default()
	s := State{
		Current:  catalog.LayerHCI,
		History:  history(catalog.LayerLink, catalog.LayerHCI),
		Selected: &FieldRef{Layer: catalog.LayerHCI, Index: hciHandle},
	}
	snapshot := s.Clone()
	ops := []Op{
		Descend(ref(catalog.LayerHCI, hciL2CAPPayload)),
		SelectField(ref(catalog.LayerHCI, 0)),
		JumpTo(catalog.LayerLink),
		GoBack(),
		{Kind: OpKind(42)},
	}
	for _, op := range ops {
		if _, err := Apply(cat, s, op); err != nil && op.Kind != OpKind(42) {
			t.Fatalf("apply %s: %v", op.Kind, err)
		}
		if !s.Equal(snapshot) {
			t.Fatalf("apply %s mutated input state", op.Kind)
		}
	}
}

func TestRestoreChecksInvariants(t *testing.T) {
	testlog.Start(t)
	cat := catalog.Default()
	bad := []State{
		{Current: catalog.LayerHCI, History: nil},
		{Current: catalog.LayerHCI, History: history(catalog.LayerHCI)},
		{Current: catalog.LayerATT, History: history(catalog.LayerLink, catalog.LayerHCI)},
		{Current: catalog.LayerHCI, History: history(catalog.LayerLink, catalog.LayerHCI, catalog.LayerHCI)},
		{Current: catalog.LayerLink, History: history(catalog.LayerLink), Selected: &FieldRef{Layer: catalog.LayerLink, Index: linkHCIPayload}},
		{Current: catalog.LayerLink, History: history(catalog.LayerLink), Selected: &FieldRef{Layer: catalog.LayerHCI, Index: 0}},
	}
	for i, s := range bad {
		if _, err := Restore(cat, s); err == nil {
			t.Fatalf("case %d: expected invariant violation", i)
		}
	}
	good := State{Current: catalog.LayerHCI, History: history(catalog.LayerLink, catalog.LayerHCI)}
	n, err := Restore(cat, good)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	expectHistory(t, n, catalog.LayerLink, catalog.LayerHCI)
}

func TestBreadcrumbsTagCurrent(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	drillTo(t, n, 2)
	crumbs := n.Breadcrumbs()
	wantNames := []string{"Link Layer", "HCI", "L2CAP"}
	if len(crumbs) != len(wantNames) {
		t.Fatalf("unexpected crumbs: %+v", crumbs)
	}
	for i, c := range crumbs {
		if c.Name != wantNames[i] {
			t.Fatalf("crumb[%d]=%q want %q", i, c.Name, wantNames[i])
		}
		last := i == len(crumbs)-1
		if c.Current != last || c.Navigable() == last {
			t.Fatalf("crumb[%d] tagged wrong: %+v", i, c)
		}
	}
}

func TestVisibleFieldsAndTerminalWidth(t *testing.T) {
	testlog.Start(t)
	n := New(catalog.Default())
	parts := n.VisibleFields()
	if len(parts.Terminal) != 4 || len(parts.Encapsulating) != 1 {
		t.Fatalf("unexpected partition: %+v", parts)
	}
	wantOrder := []int{0, 1, 2, 4}
	for i, f := range parts.Terminal {
		if f.Ref.Index != wantOrder[i] {
			t.Fatalf("terminal order broken: %+v", parts.Terminal)
		}
	}
	if got := n.TotalTerminalByteWidth(); got != 10 {
		t.Fatalf("link terminal bytes=%v want 10", got)
	}

	drillTo(t, n, 1)
	if got := n.TotalTerminalByteWidth(); got != 4.5 {
		t.Fatalf("hci terminal bytes=%v want 4.5", got)
	}
	drillTo4 := New(catalog.Default())
	drillTo(t, drillTo4, 4)
	if got := drillTo4.TotalTerminalByteWidth(); got != 7 {
		t.Fatalf("gatt terminal bytes=%v want 7", got)
	}
	if len(drillTo4.VisibleFields().Encapsulating) != 0 {
		t.Fatalf("gatt has no nested payload")
	}
	if err := drillTo4.SelectField(ref(catalog.LayerGATT, gattCharValue)); err != nil {
		t.Fatalf("variable field must be selectable: %v", err)
	}
}
