package tui

const (
	TextFooterInput  = "Enter: import | Esc: clear | Tab: feed status | Ctrl+C: quit"
	TextFooterResult = "s: save as draft | n: new URL | q: quit"
	TextFooterFeeds  = "r: refresh feeds now | n: back | q: quit"
	TextFooterBusy   = "Working... | Ctrl+C: quit"
	TextFooterDone   = "n: new URL | q: quit"
)
