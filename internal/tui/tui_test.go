package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/qb"
)

var limited = qb.DataQuery{AgencyID: qb.ID("ECB"), ResourceID: qb.ID("EXR"), Limit: qb.Int(800)}

func TestModelRowsCoverEveryVersion(t *testing.T) {
	m := newModel(limited, Options{BaseURL: "https://registry.example.org/rest/"})
	if len(m.rows) != len(apiversion.All()) {
		t.Fatalf("rows=%d", len(m.rows))
	}
	got := m.table.Rows()
	last := got[len(got)-1]
	if last[1] != "yes" || !strings.HasPrefix(last[2], "https://registry.example.org/rest/data/") {
		t.Fatalf("last row=%v", last)
	}
	if got[0][1] != "no" {
		t.Fatalf("first row=%v", got[0])
	}
}

func TestModelToggleShortForm(t *testing.T) {
	m := newModel(limited, Options{})
	full := m.table.Rows()[len(m.rows)-1][2]

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(model)
	if !m.short {
		t.Fatalf("expected short form after toggle")
	}
	short := m.table.Rows()[len(m.rows)-1][2]
	if len(short) >= len(full) || !strings.HasPrefix(full, strings.SplitN(short, "?", 2)[0]) {
		t.Fatalf("short=%q full=%q", short, full)
	}
	if !strings.Contains(m.View(), "short form") {
		t.Fatalf("view does not mention the short form")
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := newModel(limited, Options{})
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("key %q: expected quit command", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("key %q: expected tea.QuitMsg", k.String())
		}
	}
}

func TestModelViewShowsSelection(t *testing.T) {
	m := newModel(limited, Options{})
	view := m.View()
	if !strings.Contains(view, "first supported: V2.2.0") {
		t.Fatalf("view=%s", view)
	}
	// The cursor starts on the oldest version, which cannot express limit.
	if !strings.Contains(view, "V1.0.0: ") {
		t.Fatalf("view lacks detail of the selected row: %s", view)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = next.(model)
	if m.width != 60 {
		t.Fatalf("width=%d", m.width)
	}
}
