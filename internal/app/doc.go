// Package app is the composition root for nib.
//
// Run loads configuration, opens the log file, reads preferences and the
// stored session, builds the Inkwell client and a shared state.Store, then
// starts the background poller and the TUI:
//
//	Run()
//	  ├─> config.Load()        ~/.config/nib/config.toml
//	  ├─> logging.Open()       log file; the TUI owns the terminal
//	  ├─> prefs.Load()         theme, default list
//	  ├─> session.Load()       token and user id
//	  ├─> inkwell.NewClient()  HTTP client
//	  ├─> state.Refresh()      first page before the UI draws
//	  ├─> StartPoller()        background refresh with backoff
//	  └─> ui.Run()             blocks until quit or cancellation
//
// The poller refreshes whatever page the store currently selects. After a
// failure it waits twice as long as before, up to 30 seconds, and returns to
// the base interval on the next success.
//
// Import and DeleteArticle are the non-interactive commands. Import runs a
// Markdown file through the same draft.Form rules as the editor. DeleteArticle
// resolves an id or slug and asks for confirmation on stdin first.
package app
