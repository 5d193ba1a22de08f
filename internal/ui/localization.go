package ui

import (
	"strings"

	"fyne.io/fyne/v2/lang"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeySongPlaceholder   = "song_placeholder"
	KeySearch            = "search"
	KeyDownload          = "download"
	KeyLoading           = "loading"
	KeyErrorPrefix       = "error_prefix"
	KeyNoResults         = "no_results"
	KeyEnterSong         = "enter_song"
	KeySelectSongFirst   = "select_song_first"
	KeyDownloading       = "downloading"
	KeyDownloadCompleted = "download_completed"
	KeyDownloadFailed    = "download_failed"
	KeyRevealInFolder    = "reveal_in_folder"
	KeyOpenSong          = "open_song"
	KeyClose             = "close"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyQualityPreset     = "quality_preset"
	KeyResultCount       = "result_count"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeyErrorOpeningFile  = "error_opening_file"
)

const fallbackLanguage = "en"

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: fallbackLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" follows the OS locale.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	} else {
		l.currentLanguage = fallbackLanguage
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if text, found := l.texts[l.currentLanguage][key]; found {
		return text
	}
	if text, found := l.texts[fallbackLanguage][key]; found {
		return text
	}
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"es": "Español",
		"ru": "Русский",
		"pt": "Português",
	}
}

func systemLanguage() string {
	// e.g. "pt-BR"
	code, _, _ := strings.Cut(lang.SystemLocale().LanguageString(), "-")
	return strings.ToLower(code)
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Youtube Downloader",
		KeySongPlaceholder:   "Song",
		KeySearch:            "Search",
		KeyDownload:          "Download",
		KeyLoading:           "Loading...",
		KeyErrorPrefix:       "Error: ",
		KeyNoResults:         "No songs found",
		KeyEnterSong:         "Please enter a song name",
		KeySelectSongFirst:   "Please select a song first",
		KeyDownloading:       "Downloading...",
		KeyDownloadCompleted: "Completed Download",
		KeyDownloadFailed:    "Download failed",
		KeyRevealInFolder:    "Show in folder",
		KeyOpenSong:          "Open",
		KeyClose:             "OK",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyQualityPreset:     "Quality Preset",
		KeyResultCount:       "Search Results",
		KeyAutoReveal:        "Show finished songs in folder",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyErrorOpeningFile:  "Error opening file",
	}

	l.texts["es"] = map[string]string{
		KeyAppTitle:          "Descargador de Youtube",
		KeySongPlaceholder:   "Canción",
		KeySearch:            "Buscar",
		KeyDownload:          "Descargar",
		KeyLoading:           "Cargando...",
		KeyErrorPrefix:       "Error: ",
		KeyNoResults:         "No se encontraron canciones",
		KeyEnterSong:         "Escribe el nombre de una canción",
		KeySelectSongFirst:   "Primero selecciona una canción",
		KeyDownloading:       "Descargando...",
		KeyDownloadCompleted: "Descarga completada",
		KeyDownloadFailed:    "La descarga falló",
		KeyRevealInFolder:    "Mostrar en carpeta",
		KeyOpenSong:          "Abrir",
		KeyClose:             "Aceptar",
		KeySettings:          "Ajustes",
		KeyFile:              "Archivo",
		KeyLanguage:          "Idioma",
		KeyDownloadDirectory: "Carpeta de descargas",
		KeyMaxParallel:       "Descargas paralelas máx.",
		KeyQualityPreset:     "Calidad",
		KeyResultCount:       "Resultados de búsqueda",
		KeyAutoReveal:        "Mostrar canciones terminadas en la carpeta",
		KeySave:              "Guardar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Examinar",
		KeySettingsSaved:     "¡Ajustes guardados!",
		KeyErrorOpeningFile:  "Error al abrir el archivo",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Youtube Загрузчик",
		KeySongPlaceholder:   "Песня",
		KeySearch:            "Найти",
		KeyDownload:          "Скачать",
		KeyLoading:           "Загрузка...",
		KeyErrorPrefix:       "Ошибка: ",
		KeyNoResults:         "Ничего не найдено",
		KeyEnterSong:         "Введите название песни",
		KeySelectSongFirst:   "Сначала выберите песню",
		KeyDownloading:       "Скачивание...",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyDownloadFailed:    "Ошибка загрузки",
		KeyRevealInFolder:    "Показать в папке",
		KeyOpenSong:          "Открыть",
		KeyClose:             "ОК",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyMaxParallel:       "Макс. параллельных",
		KeyQualityPreset:     "Предустановка качества",
		KeyResultCount:       "Результатов поиска",
		KeyAutoReveal:        "Показывать скачанные песни в папке",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Youtube Downloader",
		KeySongPlaceholder:   "Música",
		KeySearch:            "Buscar",
		KeyDownload:          "Baixar",
		KeyLoading:           "Carregando...",
		KeyErrorPrefix:       "Erro: ",
		KeyNoResults:         "Nenhuma música encontrada",
		KeyEnterSong:         "Digite o nome de uma música",
		KeySelectSongFirst:   "Selecione uma música primeiro",
		KeyDownloading:       "Baixando...",
		KeyDownloadCompleted: "Download concluído",
		KeyDownloadFailed:    "Falha no download",
		KeyRevealInFolder:    "Mostrar na pasta",
		KeyOpenSong:          "Abrir",
		KeyClose:             "OK",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyDownloadDirectory: "Diretório de Download",
		KeyMaxParallel:       "Max Downloads Paralelos",
		KeyQualityPreset:     "Predefinição de Qualidade",
		KeyResultCount:       "Resultados da busca",
		KeyAutoReveal:        "Mostrar músicas concluídas na pasta",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
	}
}
