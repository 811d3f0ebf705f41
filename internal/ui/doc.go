// Package ui implements nib's terminal interface on Bubble Tea.
//
// The Model owns three views:
//
//   - List: the public feed or the signed-in user's articles, one page at a
//     time, backed by state.Store
//   - Detail: a single article resolved through access.Resolver
//   - Editor: the create/edit form, backed by draft.Form
//
// All server calls run as tea.Cmds. Responses for the detail and editor
// views carry a generation number and are dropped when the user has since
// moved on, so a slow response never overwrites newer state. Deleting asks
// for confirmation in a modal before any request is sent.
package ui
