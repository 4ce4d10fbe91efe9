// Package dashboard implements the interactive compass configuration
// dashboard.
//
// The dashboard is a Bubble Tea program with one tab per settings panel
// (Colors, WiFi, Spawn, Info) and the Experimental Features dialog for the
// advanced settings. Every panel follows the same cycle: it loads its
// domain from the store when mounted, edits a panel form locally, and
// saves through the store on demand.
//
// # Lifetimes
//
// Switching tabs unmounts the old panel: its in-flight requests are
// cancelled and any result that still arrives is dropped by mount id. The
// experimental settings are loaded once when the dashboard starts and
// their requests live until it quits.
//
// # Errors
//
// Device failures are logged (see internal/logging) and otherwise silent:
// busy indicators clear and the form keeps its values. The one visible
// error is the spawn panel's coordinate check, shown for
// panel.SpawnErrorDuration without any request being sent.
//
// # Usage
//
//	client := deviceconfig.NewClient(host, port)
//	m := dashboard.New(ctx, address, store.New(client))
//	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
//	    return err
//	}
package dashboard
