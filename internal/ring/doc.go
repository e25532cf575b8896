// Package ring provides a fixed-capacity, allocation-free sliding window.
//
// Buffer keeps the most recent N values pushed into it in chronological order.
// The backing slice is allocated once by New; Push never allocates. Capacity 0
// is a valid buffer that stays empty forever, and capacity 1 overwrites its
// only slot on every push.
package ring
