// Package server provides the HTTP and WebSocket server for Arbor
// applications.
//
// The server renders registered pages to HTML on GET requests, serves
// the bootloader script at /_arbor/boot.js, and upgrades /_arbor/live
// to a WebSocket session that carries action events from the client
// and patch frames back.
//
// Each live session owns a composer. Client events are dispatched to
// registered action handlers on the session's event loop; handlers
// mutate state cells, the scheduler coalesces the resulting dirt into
// one recomposition pass, and the changed markup is sent to the client
// as a patch frame.
//
//	srv := server.New(server.DefaultConfig())
//	srv.RegisterPage("/", "Home", homePage)
//	srv.OnAction(protocol.ActionToggle, toggleHandler)
//	srv.ListenAndServe()
package server
