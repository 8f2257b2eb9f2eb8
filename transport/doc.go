// Package transport turns a half-duplex, fixed-width synchronous byte
// transport into a byte-stream abstraction suitable for a textual command
// dialect.
//
// The hardware boundary is the [Bus] interface: one full-duplex frame
// exchange plus a data-ready line. Everything electrical (clock bring-up,
// pin multiplexing, chip-select timing) lives behind that interface and is
// out of scope here.
//
// The [Framer] layered on top implements the protocol-facing contract:
//
//   - Outbound payloads are padded to the fixed frame width with a pad byte
//     (LF for eS-WiFi modules), so the frame length on the wire is constant
//     regardless of payload length.
//   - Inbound data is clocked out frame by frame and accumulated until a
//     terminator sequence (the module's command prompt) appears in the
//     stream or a maximum wait elapses. Partial data is never surfaced.
//   - Before any exchange the framer busy-waits on the ready line, bounded
//     by a maximum spin count.
//
// On 16-bit module generations the two bytes of each word appear swapped on
// the wire; the framer normalizes byte order in both directions so the
// layers above only ever see the logical byte stream.
package transport
