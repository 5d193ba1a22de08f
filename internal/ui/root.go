package ui

import (
	"context"
	"errors"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/song-downloader/internal/bridge"
	"github.com/ytget/song-downloader/internal/config"
	"github.com/ytget/song-downloader/internal/download"
	"github.com/ytget/song-downloader/internal/model"
	"github.com/ytget/song-downloader/internal/platform"
	"github.com/ytget/song-downloader/internal/view"
)

// Options wires the window to its backend
type Options struct {
	Invoker  bridge.Invoker
	Settings *config.Settings

	// Downloads is the in-process download service. It is nil when the
	// backend runs behind a remote bridge; progress is then indeterminate.
	Downloads download.Downloader
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	controller   *view.Controller
	settings     *config.Settings
	downloads    download.Downloader
	localization *Localization

	ctx   context.Context
	async func(func())

	// OS hooks, replaced in tests
	openFile        func(path string) error
	revealInManager func(path string) error

	// last rendered state, only touched on the UI goroutine
	state view.State

	heading        *widget.Label
	searchEntry    *widget.Entry
	searchBtn      *widget.Button
	loadingBar     *widget.ProgressBarInfinite
	loadingLabel   *widget.Label
	errorLabel     *widget.Label
	selectedTitle  *widget.Label
	selectedArtist *widget.Label
	downloadBtn    *widget.Button
	progressBar    *widget.ProgressBar
	progressInf    *widget.ProgressBarInfinite
	selectedPanel  *fyne.Container
	resultsList    *widget.List
	emptyLabel     *widget.Label
}

// NewRootUI creates and initializes the main UI
func NewRootUI(ctx context.Context, window fyne.Window, opts Options) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(opts.Settings.GetLanguage())

	ui := &RootUI{
		window:          window,
		settings:        opts.Settings,
		downloads:       opts.Downloads,
		localization:    localization,
		ctx:             ctx,
		async:           func(fn func()) { go fn() },
		openFile:        platform.OpenFileWithDefaultApp,
		revealInManager: platform.OpenFileInManager,
		state:           view.State{Phase: view.PhaseIdle},
	}
	ui.controller = view.NewController(opts.Invoker, view.NotifierFunc(ui.notify))
	ui.controller.SetChangeCallback(func(s view.State) {
		fyne.Do(func() { ui.render(s) })
	})

	if ui.downloads != nil {
		ui.downloads.SetUpdateCallback(ui.onTaskUpdate)
	}

	window.SetTitle(ui.text(KeyAppTitle))
	ui.setupUI()
	ui.render(ui.state)

	log.Printf("RootUI initialized, local downloads: %v", ui.downloads != nil)
	return ui
}

// Controller exposes the view controller driving this window
func (ui *RootUI) Controller() *view.Controller {
	return ui.controller
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.heading = widget.NewLabelWithStyle(ui.text(KeyAppTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	ui.heading.SizeName = theme.SizeNameSubHeadingText

	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.SetPlaceHolder(ui.text(KeySongPlaceholder))
	ui.searchEntry.OnSubmitted = func(string) { ui.onSearch() }

	ui.searchBtn = widget.NewButton(IconSearch+" "+ui.text(KeySearch), ui.onSearch)
	ui.searchBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	left := container.NewHBox(settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		img := canvas.NewImageFromResource(logo)
		img.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
		img.FillMode = canvas.ImageFillContain
		left = container.NewHBox(img, settingsBtn)
	}
	searchRow := container.NewBorder(nil, nil, left, ui.searchBtn, ui.searchEntry)

	ui.loadingBar = widget.NewProgressBarInfinite()
	ui.loadingLabel = widget.NewLabel(ui.text(KeyLoading))
	ui.errorLabel = widget.NewLabel("")
	ui.errorLabel.Importance = widget.DangerImportance
	ui.errorLabel.Wrapping = fyne.TextWrapWord

	ui.selectedTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.selectedTitle.Truncation = fyne.TextTruncateEllipsis
	ui.selectedArtist = widget.NewLabel("")
	ui.downloadBtn = widget.NewButton(ui.text(KeyDownload), ui.onDownload)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.progressBar = widget.NewProgressBar()
	ui.progressInf = widget.NewProgressBarInfinite()
	ui.selectedPanel = container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel(IconMusic), ui.downloadBtn,
			container.NewVBox(ui.selectedTitle, ui.selectedArtist)),
		ui.progressBar,
		ui.progressInf,
		widget.NewSeparator(),
	)

	ui.resultsList = widget.NewList(
		func() int { return len(ui.state.Items) },
		ui.createResultItem,
		ui.updateResultItem,
	)
	ui.resultsList.OnSelected = ui.onResultSelected
	ui.emptyLabel = widget.NewLabel(ui.text(KeyNoResults))

	top := container.NewVBox(
		ui.heading,
		searchRow,
		container.NewBorder(nil, nil, ui.loadingLabel, nil, ui.loadingBar),
		ui.errorLabel,
		ui.selectedPanel,
		ui.emptyLabel,
	)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.resultsList))
	ui.window.Canvas().Focus(ui.searchEntry)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.text(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.text(KeyLanguage))
	for _, code := range sortedKeys(ui.localization.GetAvailableLanguages()) {
		langCode := code
		item := fyne.NewMenuItem(ui.localization.GetAvailableLanguages()[code], func() {
			ui.onLanguageChange(langCode)
		})
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.text(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.text(KeyAppTitle))
	ui.heading.SetText(ui.text(KeyAppTitle))
	ui.searchEntry.SetPlaceHolder(ui.text(KeySongPlaceholder))
	ui.searchBtn.SetText(IconSearch + " " + ui.text(KeySearch))
	ui.loadingLabel.SetText(ui.text(KeyLoading))
	ui.downloadBtn.SetText(ui.text(KeyDownload))
	ui.emptyLabel.SetText(ui.text(KeyNoResults))
	ui.render(ui.state)
}

// render shows s. Must run on the UI goroutine.
func (ui *RootUI) render(s view.State) {
	ui.state = s

	if s.IsLoading() {
		ui.searchBtn.Disable()
		ui.loadingLabel.Show()
		ui.loadingBar.Show()
		ui.loadingBar.Start()
	} else {
		ui.searchBtn.Enable()
		ui.loadingBar.Stop()
		ui.loadingBar.Hide()
		ui.loadingLabel.Hide()
	}

	if s.Phase == view.PhaseError {
		ui.errorLabel.SetText(ui.text(KeyErrorPrefix) + s.Message)
		ui.errorLabel.Show()
	} else {
		ui.errorLabel.SetText("")
		ui.errorLabel.Hide()
	}

	if s.Selected != nil {
		ui.selectedTitle.SetText(s.Selected.Title)
		ui.selectedArtist.SetText(s.Selected.Artist)
		ui.selectedPanel.Show()
	} else {
		ui.selectedPanel.Hide()
		ui.resultsList.UnselectAll()
	}
	ui.renderDownloading(s.Downloading)

	if s.HasResults() && len(s.Items) == 0 {
		ui.emptyLabel.Show()
	} else {
		ui.emptyLabel.Hide()
	}
	if s.HasResults() {
		ui.resultsList.Show()
	} else {
		ui.resultsList.Hide()
	}
	ui.resultsList.Refresh()
}

func (ui *RootUI) renderDownloading(downloading bool) {
	if !downloading {
		ui.downloadBtn.Enable()
		ui.progressBar.Hide()
		ui.progressInf.Stop()
		ui.progressInf.Hide()
		return
	}

	// Overlapping downloads are allowed, the button stays enabled
	if ui.downloads != nil {
		ui.progressBar.Show()
		ui.progressInf.Hide()
		return
	}
	ui.progressBar.Hide()
	ui.progressInf.Show()
	ui.progressInf.Start()
}

// createResultItem creates a row showing title and artist
func (ui *RootUI) createResultItem() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	title.Truncation = fyne.TextTruncateEllipsis
	artist := widget.NewLabel("")
	artist.Truncation = fyne.TextTruncateEllipsis
	return container.NewVBox(title, artist)
}

// updateResultItem fills a row with the item at id
func (ui *RootUI) updateResultItem(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(ui.state.Items) {
		return
	}
	item := ui.state.Items[id]
	box, ok := obj.(*fyne.Container)
	if !ok || len(box.Objects) != 2 {
		return
	}
	box.Objects[0].(*widget.Label).SetText(item.Title)
	box.Objects[1].(*widget.Label).SetText(item.Artist)
}

func (ui *RootUI) onResultSelected(id widget.ListItemID) {
	if err := ui.controller.Select(id); err != nil {
		log.Printf("Select %d ignored: %v", id, err)
	}
}

// onSearch runs the search for the entry text off the UI goroutine
func (ui *RootUI) onSearch() {
	text := ui.searchEntry.Text
	ui.async(func() {
		err := ui.controller.Submit(ui.ctx, text)
		if err != nil && !errors.Is(err, view.ErrSuperseded) && !errors.Is(err, view.ErrEmptyQuery) {
			log.Printf("Search failed: %v", err)
		}
	})
}

// onDownload downloads the selected song off the UI goroutine
func (ui *RootUI) onDownload() {
	ui.async(func() {
		if _, err := ui.controller.Download(ui.ctx); err != nil && !errors.Is(err, view.ErrNoSelection) {
			log.Printf("Download failed: %v", err)
		}
	})
}

// onTaskUpdate mirrors in-process download progress into the progress bar
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	log.Printf("Task update received: %s %s %d%%", task.ID, task.Status, task.Percent)
	if !task.Status.IsActive() {
		return
	}
	progress := task.Progress
	fyne.Do(func() {
		ui.progressBar.SetValue(progress)
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.applySettings)
}

// applySettings pushes saved settings into the running backend and UI
func (ui *RootUI) applySettings() {
	if ui.downloads != nil {
		ui.downloads.SetDownloadDirectory(ui.settings.GetDownloadDirectory())
		ui.downloads.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())
		ui.downloads.SetQualityPreset(string(ui.settings.GetQualityPreset()))
	}
	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(lang)
		ui.refreshUITexts()
		ui.createMenu()
	}
	log.Printf("Settings applied: dir=%s parallel=%d quality=%s",
		ui.settings.GetDownloadDirectory(), ui.settings.GetMaxParallelDownloads(), ui.settings.GetQualityPreset())
}

func (ui *RootUI) text(key string) string {
	return ui.localization.GetText(key)
}
