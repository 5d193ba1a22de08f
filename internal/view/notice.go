package view

// NoticeKind identifies a blocking user-facing message
type NoticeKind int

const (
	// NoticeEmptyQuery asks the user to type a song before searching
	NoticeEmptyQuery NoticeKind = iota
	// NoticeNoSelection asks the user to pick a song before downloading
	NoticeNoSelection
	// NoticeDownloadStarted tells the user a download is under way
	NoticeDownloadStarted
	// NoticeDownloadCompleted carries the written file path in Detail
	NoticeDownloadCompleted
	// NoticeDownloadFailed carries the error message in Detail
	NoticeDownloadFailed
)

// Notice is a message the UI shows as a blocking prompt or alert
type Notice struct {
	Kind   NoticeKind
	Title  string // song title the notice refers to, if any
	Detail string
}

// Notifier renders notices
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

// Notify implements Notifier
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}
