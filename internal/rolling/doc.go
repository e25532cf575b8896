// Package rolling keeps the bounded live views shown while an encode runs.
//
// Sparkline holds scaled samples for small trend graphs (fps, speed) and a
// running maximum over everything it has ever seen. Chart holds (x, y) points
// for the bitrate graph together with a two-point baseline at the input's
// nominal bit rate. Both are backed by ring.Buffer, so memory stays fixed no
// matter how long the encode runs.
package rolling
