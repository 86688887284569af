// Package eudrtrack assembles the data access layer of the EUDR compliance
// dashboard into a command line tool: configuration, the storage medium,
// credentials, the mode preference and one hook per entity collection.
package eudrtrack
