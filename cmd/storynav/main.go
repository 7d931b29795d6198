package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/bubbletea"
	"github.com/awalczak/storynav/clipboard"
	"github.com/awalczak/storynav/fuzzy"
	"github.com/awalczak/storynav/jsonl"
	"github.com/awalczak/storynav/lipgloss"
	"github.com/awalczak/storynav/sbindex"
)

// ErrNoStories is returned when no ref produced any index entries.
var ErrNoStories = errors.New("no stories to display")

// App encapsulates the application logic for testing.
type App struct {
	Loader      storynav.RefLoader
	Store       storynav.RecentStore
	RecentsPath string
	Sources     []storynav.RefSource
	Out         io.Writer

	// Log receives every viewing the session makes; wire the same value
	// into the viewer's event sink.
	Log *selectionLog

	// MakeViewer builds the viewer once recents are known.
	MakeViewer func(recents []storynav.Recent) storynav.Viewer
}

// Run loads every source, shows the explorer, and prints the selected
// story id on exit. Every story viewed during the session is folded into
// the recents file, not just the final selection.
func (a *App) Run(ctx context.Context) error {
	dataset, err := a.Loader.Load(ctx, a.Sources)
	if err != nil {
		return err
	}
	if empty(dataset) {
		return ErrNoStories
	}

	recents, err := a.Store.Load(a.RecentsPath)
	if err != nil {
		return fmt.Errorf("loading recents: %w", err)
	}

	sel, err := a.MakeViewer(recents).View(ctx, dataset)
	if err != nil {
		return err
	}

	updated := recents
	if a.Log != nil {
		for _, viewing := range a.Log.selections {
			updated = jsonl.Push(updated, storynav.Recent{StoryID: viewing.StoryID, RefID: viewing.RefID})
		}
	}
	if sel != nil {
		updated = jsonl.Push(updated, storynav.Recent{StoryID: sel.StoryID, RefID: sel.RefID})
	}
	if sel == nil && (a.Log == nil || len(a.Log.selections) == 0) {
		return nil
	}

	if err := a.Store.Save(a.RecentsPath, updated); err != nil {
		return fmt.Errorf("saving recents: %w", err)
	}

	if sel == nil {
		return nil
	}
	_, err = fmt.Fprintln(a.Out, sel.StoryID)
	return err
}

func empty(ds *storynav.Dataset) bool {
	for _, refID := range ds.Order {
		if ref := ds.Ref(refID); ref != nil && ref.Index != nil && len(ref.Index.Entries) > 0 {
			return false
		}
	}
	return true
}

// selectionLog records every story viewing of a session, in order.
// Preload intents have no preview layer to go to in the standalone binary.
type selectionLog struct {
	selections []storynav.Selection
}

func (l *selectionLog) SelectStory(sel storynav.Selection) {
	l.selections = append(l.selections, sel)
}

func (l *selectionLog) PreloadEntries([]string, string) {}

func main() {
	indexPath := flag.String("index", "index.json", "path to the local index.json")
	recentsPath := flag.String("recents", defaultRecentsPath(), "path to the recently-viewed list")
	statusPath := flag.String("statuses", "", "optional JSON file with per-story statuses")
	light := flag.Bool("light", false, "use the light theme")

	var refs []storynav.RefSource
	flag.Func("ref", "composed ref as title=url (repeatable)", func(v string) error {
		title, url, ok := strings.Cut(v, "=")
		if !ok {
			return fmt.Errorf("expected title=url, got %q", v)
		}
		refs = append(refs, storynav.RefSource{ID: sbindex.RefID(title), Title: title, URL: url})
		return nil
	})
	flag.Parse()

	sources := append([]storynav.RefSource{{
		ID:    storynav.InternalRefID,
		Title: "Local",
		URL:   *indexPath,
	}}, refs...)

	statuses, err := loadStatuses(*statusPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading statuses:", err)
		os.Exit(1)
	}

	theme := storynav.Theme(lipgloss.DefaultTheme())
	if *light {
		theme = lipgloss.LightTheme()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events := &selectionLog{}
	app := &App{
		Loader:      sbindex.NewLoader(sbindex.NewParser()),
		Store:       jsonl.NewRecentStore(),
		RecentsPath: *recentsPath,
		Sources:     sources,
		Out:         os.Stdout,
		Log:         events,
		MakeViewer: func(recents []storynav.Recent) storynav.Viewer {
			opts := []bubbletea.ModelOption{
				bubbletea.WithEventSink(events),
				bubbletea.WithSearcher(fuzzy.New()),
				bubbletea.WithRecents(recents),
				bubbletea.WithClipboard(clipboard.NewCommand()),
			}
			if statuses != nil {
				opts = append(opts, bubbletea.WithStatuses(statuses))
			}
			return bubbletea.NewViewer(theme, opts...)
		},
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadStatuses reads a JSON file mapping story id to per-provider status
// entries.
func loadStatuses(path string) (*storynav.Statuses, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var byStory map[string]map[string]storynav.StatusEntry
	if err := json.Unmarshal(data, &byStory); err != nil {
		return nil, err
	}
	return &storynav.Statuses{ByStory: byStory}, nil
}

func defaultRecentsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storynav-recents.jsonl"
	}
	return filepath.Join(dir, "storynav", "recents.jsonl")
}
