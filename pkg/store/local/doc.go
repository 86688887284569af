// Package local is the offline persistence engine. It keeps each entity
// collection as a JSON array in a storage.Medium and serves the same
// operations as the remote CMS client, assigning ids and timestamps itself.
//
// Seeding is explicit: startup code calls Store.EnsureSeeded once, which
// writes the sample records unless the medium already holds the
// initialization marker.
package local
