package ui

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconSearch   = "🔍"
	IconMusic    = "🎵"
)

// Layout sizing
const (
	LogoSize       float32 = 32
	SettingsWidth  float32 = 500
	SettingsHeight float32 = 440
)
