// Package worker includes the background jobs of the gateway daemon.
//
// It watches the config file and reconnects the shared session
// when the client section changes.
package worker
