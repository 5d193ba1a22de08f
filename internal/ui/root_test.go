package ui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/song-downloader/internal/config"
	"github.com/ytget/song-downloader/internal/model"
	"github.com/ytget/song-downloader/internal/view"
)

// invokerFunc answers bridge commands in tests
type invokerFunc func(ctx context.Context, command string, args any) (json.RawMessage, error)

func (f invokerFunc) Invoke(ctx context.Context, command string, args any) (json.RawMessage, error) {
	return f(ctx, command, args)
}

const testMenu = `{"items":[
	{"title":"Bohemian Rhapsody","artist":"Queen","video_id":"fJ9rUzIMcZQ"},
	{"title":"Under Pressure","artist":"Queen","video_id":"a01QQZyl-_I"}
]}`

func newTestUI(t *testing.T, inv invokerFunc) *RootUI {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	settings := config.NewSettings(app)
	settings.SetLanguage("en")
	window := test.NewWindow(nil)
	t.Cleanup(window.Close)

	ui := NewRootUI(context.Background(), window, Options{Invoker: inv, Settings: settings})
	ui.async = func(fn func()) { fn() }
	return ui
}

func menuInvoker(menu string, searchErr error) invokerFunc {
	return func(_ context.Context, command string, _ any) (json.RawMessage, error) {
		switch command {
		case model.CommandGetMenu:
			if searchErr != nil {
				return nil, searchErr
			}
			return json.RawMessage(menu), nil
		case model.CommandDownload:
			return json.RawMessage(`"/songs/Bohemian Rhapsody.m4a"`), nil
		}
		return nil, errors.New("unexpected command " + command)
	}
}

func TestNewRootUI_StartsIdle(t *testing.T) {
	ui := newTestUI(t, menuInvoker(testMenu, nil))

	if ui.state.Phase != view.PhaseIdle {
		t.Errorf("Expected idle phase, got %s", ui.state.Phase)
	}
	if ui.resultsList.Visible() {
		t.Error("Results list should be hidden before the first search")
	}
	if ui.selectedPanel.Visible() {
		t.Error("Selected panel should be hidden without a selection")
	}
	if ui.window.Title() != "Youtube Downloader" {
		t.Errorf("Unexpected window title %q", ui.window.Title())
	}
}

func TestSearch_RendersResults(t *testing.T) {
	ui := newTestUI(t, menuInvoker(testMenu, nil))

	test.Type(ui.searchEntry, "queen")
	test.Tap(ui.searchBtn)

	if ui.state.Phase != view.PhaseResults {
		t.Fatalf("Expected results phase, got %s", ui.state.Phase)
	}
	if n := ui.resultsList.Length(); n != 2 {
		t.Errorf("Expected 2 rows, got %d", n)
	}
	if !ui.resultsList.Visible() {
		t.Error("Results list should be visible")
	}
	if ui.loadingBar.Visible() || ui.searchBtn.Disabled() {
		t.Error("Loading indicator should be gone after the search")
	}
	if ui.emptyLabel.Visible() {
		t.Error("Empty label should be hidden when there are results")
	}
}

func TestSearch_NoResults(t *testing.T) {
	ui := newTestUI(t, menuInvoker(`{"items":[]}`, nil))

	test.Type(ui.searchEntry, "zzzz")
	test.Tap(ui.searchBtn)

	if !ui.emptyLabel.Visible() {
		t.Error("Empty label should be shown for an empty result list")
	}
}

func TestSearch_ShowsError(t *testing.T) {
	ui := newTestUI(t, menuInvoker("", errors.New("quota exceeded")))

	test.Type(ui.searchEntry, "queen")
	test.Tap(ui.searchBtn)

	if ui.state.Phase != view.PhaseError {
		t.Fatalf("Expected error phase, got %s", ui.state.Phase)
	}
	if !ui.errorLabel.Visible() {
		t.Error("Error label should be visible")
	}
	if ui.errorLabel.Text == "" {
		t.Error("Error label should carry the message")
	}
	if ui.resultsList.Visible() {
		t.Error("Results should be hidden in the error phase")
	}
}

func TestSearch_EmptyQueryDoesNotInvoke(t *testing.T) {
	called := false
	ui := newTestUI(t, func(context.Context, string, any) (json.RawMessage, error) {
		called = true
		return nil, nil
	})

	test.Type(ui.searchEntry, "   ")
	test.Tap(ui.searchBtn)

	if called {
		t.Error("Backend should not be called for a blank query")
	}
	if ui.state.Phase != view.PhaseIdle {
		t.Errorf("Expected idle phase, got %s", ui.state.Phase)
	}
}

func TestSelect_ShowsSelectedPanel(t *testing.T) {
	ui := newTestUI(t, menuInvoker(testMenu, nil))
	test.Type(ui.searchEntry, "queen")
	test.Tap(ui.searchBtn)

	ui.resultsList.Select(1)

	if ui.state.Selected == nil {
		t.Fatal("Expected a selection")
	}
	if !ui.selectedPanel.Visible() {
		t.Error("Selected panel should be visible")
	}
	if ui.selectedTitle.Text != "Under Pressure" {
		t.Errorf("Unexpected selected title %q", ui.selectedTitle.Text)
	}
}

func TestDownload_ClearsDownloadingFlag(t *testing.T) {
	var gotArgs model.DownloadArgs
	inv := menuInvoker(testMenu, nil)
	ui := newTestUI(t, func(ctx context.Context, command string, args any) (json.RawMessage, error) {
		if command == model.CommandDownload {
			gotArgs = args.(model.DownloadArgs)
		}
		return inv(ctx, command, args)
	})
	test.Type(ui.searchEntry, "queen")
	test.Tap(ui.searchBtn)
	ui.resultsList.Select(0)

	test.Tap(ui.downloadBtn)

	if gotArgs.URL != "https://www.youtube.com/watch?v=fJ9rUzIMcZQ" {
		t.Errorf("Unexpected download URL %q", gotArgs.URL)
	}
	if ui.state.Downloading {
		t.Error("Downloading flag should be cleared after completion")
	}
	if ui.progressInf.Visible() {
		t.Error("Progress indicator should be hidden after completion")
	}
}

func TestLanguageChange_RefreshesTexts(t *testing.T) {
	ui := newTestUI(t, menuInvoker(testMenu, nil))

	ui.onLanguageChange("es")

	if ui.settings.GetLanguage() != "es" {
		t.Errorf("Language should be persisted, got %s", ui.settings.GetLanguage())
	}
	if ui.searchBtn.Text == IconSearch+" Search" {
		t.Error("Search button should be translated")
	}
	if ui.window.MainMenu() == nil {
		t.Error("Menu should be rebuilt")
	}
}

func TestSettingsDialog_Save(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	settings := config.NewSettings(app)
	window := test.NewWindow(nil)
	defer window.Close()

	sd := NewSettingsDialog(settings, NewLocalization(), window)
	sd.loadCurrentSettings()

	sd.downloadDirEntry.SetText("/tmp/songs")
	sd.maxParallelEntry.SetText("4")
	sd.resultCountEntry.SetText("12")
	sd.qualitySelect.SetSelected(string(config.QualityMP3))
	sd.languageSelect.SetSelected("Português")
	sd.autoRevealCheck.SetChecked(true)
	sd.save()

	if got := settings.GetDownloadDirectory(); got != "/tmp/songs" {
		t.Errorf("Unexpected directory %s", got)
	}
	if got := settings.GetMaxParallelDownloads(); got != 4 {
		t.Errorf("Unexpected parallel limit %d", got)
	}
	if got := settings.GetResultCount(); got != 12 {
		t.Errorf("Unexpected result count %d", got)
	}
	if got := settings.GetQualityPreset(); got != config.QualityMP3 {
		t.Errorf("Unexpected preset %s", got)
	}
	if got := settings.GetLanguage(); got != "pt" {
		t.Errorf("Unexpected language %s", got)
	}
	if !settings.GetAutoRevealOnComplete() {
		t.Error("Auto reveal should be enabled")
	}
}

func TestSettingsDialog_InvalidNumbersKeepStoredValues(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	settings := config.NewSettings(app)
	settings.SetMaxParallelDownloads(3)
	window := test.NewWindow(nil)
	defer window.Close()

	sd := NewSettingsDialog(settings, NewLocalization(), window)
	sd.loadCurrentSettings()
	sd.maxParallelEntry.SetText("many")
	sd.resultCountEntry.SetText("")
	sd.save()

	if got := settings.GetMaxParallelDownloads(); got != 3 {
		t.Errorf("Expected stored limit 3, got %d", got)
	}
	if got := settings.GetResultCount(); got != config.DefaultResultCount {
		t.Errorf("Expected default result count, got %d", got)
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]string{"ru": "", "en": "", "pt": ""})
	want := []string{"en", "pt", "ru"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestCompletionButtons_OpenAndReveal(t *testing.T) {
	ui := newTestUI(t, menuInvoker(testMenu, nil))
	var opened, revealed string
	ui.openFile = func(path string) error { opened = path; return nil }
	ui.revealInManager = func(path string) error { revealed = path; return nil }

	dismissed := 0
	buttons := ui.completionButtons("/songs/a.m4a", func() { dismissed++ })
	if len(buttons) != 3 {
		t.Fatalf("Expected 3 buttons, got %d", len(buttons))
	}

	test.Tap(buttons[2].(*widget.Button))
	if opened != "/songs/a.m4a" {
		t.Errorf("Open should launch the song, got %q", opened)
	}
	test.Tap(buttons[1].(*widget.Button))
	if revealed != "/songs/a.m4a" {
		t.Errorf("Reveal should show the song, got %q", revealed)
	}
	test.Tap(buttons[0].(*widget.Button))
	if dismissed != 3 {
		t.Errorf("Every button should close the dialog, got %d", dismissed)
	}
}

func TestShowCompleted_AutoReveal(t *testing.T) {
	ui := newTestUI(t, menuInvoker(testMenu, nil))
	ui.settings.SetAutoRevealOnComplete(true)
	var revealed string
	ui.revealInManager = func(path string) error { revealed = path; return nil }
	ui.openFile = func(string) error {
		t.Error("Song should not be opened automatically")
		return nil
	}

	ui.showCompleted(view.Notice{Kind: view.NoticeDownloadCompleted, Title: "Song", Detail: "/songs/Song.m4a"})

	if revealed != "/songs/Song.m4a" {
		t.Errorf("Expected auto reveal, got %q", revealed)
	}
}
