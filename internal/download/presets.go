package download

import "strings"

// Quality preset names
const (
	QualityBest   = "best"
	QualityMedium = "medium"
	QualityAudio  = "audio"
	QualityMP3    = "mp3"
)

// Preset maps a quality name to what is fetched
type Preset struct {
	Name      string
	Format    string
	Ext       string // extension of the fetched file
	Transcode bool   // convert to mp3 after the fetch
}

var presets = map[string]Preset{
	QualityBest:   {Name: QualityBest, Format: "best", Ext: "mp4"},
	QualityMedium: {Name: QualityMedium, Format: "height<=480", Ext: "mp4"},
	QualityAudio:  {Name: QualityAudio, Format: "bestaudio", Ext: "m4a"},
	QualityMP3:    {Name: QualityMP3, Format: "bestaudio", Ext: "m4a", Transcode: true},
}

// IsPreset reports whether name is a known quality preset
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// QualityPresets lists the preset names in menu order
var QualityPresets = []string{QualityBest, QualityMedium, QualityAudio, QualityMP3}

// PresetFor returns the preset for name, falling back to best
func PresetFor(name string) Preset {
	if p, ok := presets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return presets[QualityBest]
}

// FinalExt is the extension of the file the user ends up with
func (p Preset) FinalExt() string {
	if p.Transcode {
		return "mp3"
	}
	return p.Ext
}
