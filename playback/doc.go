// Package playback holds the feed's playback bookkeeping: which clip is
// current, per-clip UI state, active watch-time accumulation, prefetch
// de-duplication and the visibility rules that decide when a clip starts.
//
// Nothing in here performs I/O. The Controller returns the metrics and
// prefetch requests it produces; the caller decides how to send them.
package playback
