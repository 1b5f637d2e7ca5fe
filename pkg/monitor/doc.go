// Package monitor broadcasts read-only meter snapshots for a set of
// registered decks to any number of websocket clients, for driving an
// external dashboard or second-screen display. No command ever flows
// back from a client into a deck; the monitor only ever reads.
package monitor
