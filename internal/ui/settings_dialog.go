package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/song-downloader/internal/config"
)

// SettingsDialog edits the persisted settings
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	downloadDirEntry *widget.Entry
	maxParallelEntry *widget.Entry
	resultCountEntry *widget.Entry
	qualitySelect    *widget.Select
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check

	// display label -> language code
	languageCodes map[string]string
}

// ShowSettingsDialog opens the settings dialog. onSaved runs after the
// values were written.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, loc *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, loc, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, loc *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: loc,
		window:       window,
	}
	sd.createUI()
	return sd
}

// Show displays the dialog with the current values
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxParallelLimit))

	sd.resultCountEntry = widget.NewEntry()
	sd.resultCountEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxResultCount))

	qualityOptions := make([]string, 0, len(sd.settings.GetQualityPresetOptions()))
	for _, preset := range sd.settings.GetQualityPresetOptions() {
		qualityOptions = append(qualityOptions, string(preset))
	}
	sd.qualitySelect = widget.NewSelect(qualityOptions, nil)

	sd.languageCodes = make(map[string]string)
	labels := sd.settings.GetLanguageOptions()
	languageOptions := make([]string, 0, len(labels))
	for _, code := range sortedKeys(labels) {
		sd.languageCodes[labels[code]] = code
		languageOptions = append(languageOptions, labels[code])
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	sd.autoRevealCheck = widget.NewCheck(t(KeyAutoReveal), nil)

	form := widget.NewForm(
		widget.NewFormItem(t(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(t(KeyMaxParallel), sd.maxParallelEntry),
		widget.NewFormItem(t(KeyQualityPreset), sd.qualitySelect),
		widget.NewFormItem(t(KeyResultCount), sd.resultCountEntry),
		widget.NewFormItem(t(KeyLanguage), sd.languageSelect),
		widget.NewFormItem("", sd.autoRevealCheck),
	)

	sd.dialog = dialog.NewCustomConfirm(t(KeySettings), t(KeySave), t(KeyCancel), form, sd.onSave, sd.window)
	sd.dialog.Resize(fyne.NewSize(SettingsWidth, SettingsHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.resultCountEntry.SetText(strconv.Itoa(sd.settings.GetResultCount()))
	sd.qualitySelect.SetSelected(string(sd.settings.GetQualityPreset()))
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.save()
	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// save writes the form values. Blank or unparsable fields keep the stored value.
func (sd *SettingsDialog) save() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if n, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelDownloads(n)
	}
	if n, err := strconv.Atoi(sd.resultCountEntry.Text); err == nil {
		sd.settings.SetResultCount(n)
	}
	if sd.qualitySelect.Selected != "" {
		sd.settings.SetQualityPreset(config.QualityPreset(sd.qualitySelect.Selected))
	}
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
