package model

// Backend command names
const (
	CommandGetMenu  = "get_menu"
	CommandDownload = "download"
)

// MenuArgs are the arguments of get_menu
type MenuArgs struct {
	Query string `json:"query"`
}

// DownloadArgs are the arguments of download
type DownloadArgs struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
