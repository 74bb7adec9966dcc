// Package serial carries bus transactions over a byte stream, for a rover
// peripheral reached through a USB serial bridge or a TCP socket.
//
// A request frame is
//
//	seq addrLo addrHi wlen rlen w...
//
// and the reply is
//
//	seq status len data...
//
// Sequence numbers cycle in 1..0xEF. A reply carrying a stale sequence is
// skipped.
package serial
