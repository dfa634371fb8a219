package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitvfx/pix-go/internal/state"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 7, "this i…"},
		{"unicode héllo wörld", 9, "unicode …"},
		{"anything", 0, ""},
		{"ab", 1, "…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("one\ntwo\nthree"); got != "one" {
		t.Fatalf("firstLine = %q", got)
	}
	if got := firstLine("single"); got != "single" {
		t.Fatalf("firstLine = %q", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	cases := []struct {
		age  time.Duration
		want string
	}{
		{0, "just now"},
		{5 * time.Second, "5s ago"},
		{3 * time.Minute, "3m ago"},
		{2 * time.Hour, "2h ago"},
	}
	for _, tc := range cases {
		if got := relativeTime(now.Add(-tc.age)); got != tc.want {
			t.Fatalf("relativeTime(-%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func testModel(entries ...state.Entry) Model {
	store := &state.Store{}
	store.Update("feature-x", entries, nil)

	m := New(Options{Store: store, ThemeName: "Dracula"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	next, _ = m.Update(snapshotMsg(store.Snapshot()))
	return next.(Model)
}

func TestModel_SelectionClamped(t *testing.T) {
	m := testModel(
		state.Entry{ID: "f1", Sender: "Sam"},
		state.Entry{ID: "f2", Sender: "Alex"},
	)

	m.moveSelection(1)
	m.moveSelection(1)
	m.moveSelection(1)
	if m.selected != 1 {
		t.Fatalf("selected = %d, want clamped to 1", m.selected)
	}
	m.moveSelection(-5)
	if m.selected != 0 {
		t.Fatalf("selected = %d, want clamped to 0", m.selected)
	}

	entry, ok := m.selectedEntry()
	if !ok || entry.ID != "f1" {
		t.Fatalf("selectedEntry = %v, %v", entry, ok)
	}
}

func TestModel_ViewShowsEntries(t *testing.T) {
	m := testModel(
		state.Entry{ID: "f1", Sender: "Sam", Message: "please review", Attachments: 2},
		state.Entry{ID: "f2", Sender: "Alex", Message: "done", Viewed: true},
	)

	out := m.View()
	for _, want := range []string{"pixfeed", "feature-x", "Sam", "please review", "[2 att]", "1 unread / 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestModel_EmptyInbox(t *testing.T) {
	m := testModel()
	if !strings.Contains(m.View(), "Inbox is empty.") {
		t.Fatalf("view missing empty notice:\n%s", m.View())
	}
	if _, ok := m.selectedEntry(); ok {
		t.Fatalf("selectedEntry on empty inbox")
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := testModel(state.Entry{ID: "f1"})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = next.(Model)
	if !strings.Contains(m.View(), "pixfeed keys") {
		t.Fatalf("help overlay not shown")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if strings.Contains(m.View(), "pixfeed keys") {
		t.Fatalf("help overlay still shown after esc")
	}
}

func TestModel_ThemeCycleKey(t *testing.T) {
	m := testModel(state.Entry{ID: "f1"})
	before := m.theme.Name

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	m = next.(Model)
	if m.theme.Name == before {
		t.Fatalf("theme did not change")
	}
	if !strings.Contains(m.statusLine, m.theme.Name) {
		t.Fatalf("status line %q does not announce the theme", m.statusLine)
	}
}

func TestModel_OfflineBanner(t *testing.T) {
	store := &state.Store{}
	store.Update("", nil, errTest)
	store.Update("", nil, errTest)

	m := New(Options{Store: store})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	next, _ = m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)

	if !strings.Contains(m.View(), "OFFLINE") {
		t.Fatalf("offline state not surfaced:\n%s", m.View())
	}
}

func TestModel_ProjectPicker(t *testing.T) {
	store := &state.Store{}
	var requested string

	m := New(Options{
		Store:          store,
		ProjectChoices: []string{"alpha", "beta"},
		LoadProject: func(_ context.Context, name string) error {
			requested = name
			return nil
		},
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	out := m.View()
	for _, want := range []string{"choose a project", "alpha", "beta"} {
		if !strings.Contains(out, want) {
			t.Fatalf("picker missing %q:\n%s", want, out)
		}
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("enter on picker returned no command")
	}

	msg, ok := cmd().(projectMsg)
	if !ok || msg.err != nil {
		t.Fatalf("load command returned %#v", msg)
	}
	if requested != "beta" {
		t.Fatalf("requested project %q, want beta", requested)
	}

	next, _ = m.Update(msg)
	m = next.(Model)
	if m.showPicker || !m.projectLoaded {
		t.Fatalf("picker still active after project load")
	}
}

func TestModel_MarkReadRoutesThroughCallback(t *testing.T) {
	store := &state.Store{}
	store.Update("feature-x", []state.Entry{{ID: "f1", Sender: "Sam"}}, nil)

	var marked string
	m := New(Options{
		Store:         store,
		ProjectLoaded: true,
		MarkRead: func(_ context.Context, id string) error {
			marked = id
			store.MarkViewed(id)
			return nil
		},
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	next, _ = m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("mark-read key returned no command")
	}
	msg, ok := cmd().(actionMsg)
	if !ok || msg.err != nil {
		t.Fatalf("mark-read command returned %#v", msg)
	}
	if marked != "f1" {
		t.Fatalf("marked %q, want f1", marked)
	}
	if !store.Snapshot().Entries[0].Viewed {
		t.Fatalf("store entry not flagged viewed")
	}
}

func TestModel_ProjectPickerLoadError(t *testing.T) {
	m := New(Options{
		Store:          &state.Store{},
		ProjectChoices: []string{"alpha"},
		LoadProject: func(context.Context, string) error {
			return errTest
		},
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)

	if !m.showPicker {
		t.Fatalf("picker dismissed despite load error")
	}
	if m.pickerLoading {
		t.Fatalf("picker still marked loading after error")
	}
	if !strings.Contains(m.statusLine, "poll failed") {
		t.Fatalf("status line %q does not surface the error", m.statusLine)
	}
}

var errTest = errFixed("poll failed")

type errFixed string

func (e errFixed) Error() string { return string(e) }
