package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/song-downloader/internal/view"
)

// notify is the controller's Notifier. It may be called from any goroutine.
func (ui *RootUI) notify(n view.Notice) {
	fyne.Do(func() { ui.showNotice(n) })
}

// showNotice renders a notice as a dialog. Must run on the UI goroutine.
func (ui *RootUI) showNotice(n view.Notice) {
	switch n.Kind {
	case view.NoticeEmptyQuery:
		dialog.ShowInformation(ui.text(KeyAppTitle), ui.text(KeyEnterSong), ui.window)
	case view.NoticeNoSelection:
		dialog.ShowInformation(ui.text(KeyAppTitle), ui.text(KeySelectSongFirst), ui.window)
	case view.NoticeDownloadStarted:
		dialog.ShowInformation(ui.text(KeyDownloading), n.Title, ui.window)
	case view.NoticeDownloadFailed:
		dialog.ShowInformation(ui.text(KeyDownloadFailed), ui.text(KeyErrorPrefix)+n.Detail, ui.window)
	case view.NoticeDownloadCompleted:
		ui.showCompleted(n)
	default:
		log.Printf("Unknown notice kind %d", n.Kind)
	}
}

func (ui *RootUI) showCompleted(n view.Notice) {
	message := n.Title
	if n.Detail != "" {
		message += "\n" + n.Detail
	}

	if n.Detail == "" {
		dialog.ShowInformation(ui.text(KeyDownloadCompleted), message, ui.window)
		return
	}
	if ui.settings.GetAutoRevealOnComplete() {
		ui.revealFile(n.Detail)
		dialog.ShowInformation(ui.text(KeyDownloadCompleted), message, ui.window)
		return
	}

	d := dialog.NewCustomWithoutButtons(ui.text(KeyDownloadCompleted), widget.NewLabel(message), ui.window)
	d.SetButtons(ui.completionButtons(n.Detail, d.Hide))
	d.Show()
}

// completionButtons offers opening the song, revealing it, or closing
func (ui *RootUI) completionButtons(path string, dismiss func()) []fyne.CanvasObject {
	openBtn := widget.NewButton(ui.text(KeyOpenSong), func() {
		dismiss()
		ui.openSong(path)
	})
	openBtn.Importance = widget.HighImportance
	revealBtn := widget.NewButton(ui.text(KeyRevealInFolder), func() {
		dismiss()
		ui.revealFile(path)
	})
	closeBtn := widget.NewButton(ui.text(KeyClose), dismiss)
	return []fyne.CanvasObject{closeBtn, revealBtn, openBtn}
}

// openSong plays path with the default application
func (ui *RootUI) openSong(path string) {
	if err := ui.openFile(path); err != nil {
		log.Printf("Error opening file %s: %v", path, err)
		dialog.ShowInformation(ui.text(KeyErrorOpeningFile), err.Error(), ui.window)
	}
}

// revealFile shows path in the system file manager
func (ui *RootUI) revealFile(path string) {
	if err := ui.revealInManager(path); err != nil {
		log.Printf("Error revealing file %s: %v", path, err)
		dialog.ShowInformation(ui.text(KeyErrorOpeningFile), err.Error(), ui.window)
	}
}
