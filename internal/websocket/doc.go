// Package websocket pushes dataset events to open dashboard pages.
//
// A Hub owns the set of connected clients. Handler upgrades /ws requests
// and registers a Client per connection; the client's write pump forwards
// hub messages and keeps the connection alive with pings. After every
// reload the dashboard service calls Hub.NotifyDataset and the page
// script re-fetches the view.
package websocket
