// Package eswifi implements the command protocol driver for Inventek
// eS-WiFi (ISM43362-class) WiFi modules.
//
// The module speaks a textual AT-style dialect over a half-duplex,
// fixed-width synchronous transport (see the transport package). This
// package owns everything above the framer:
//
//   - Command construction and encoding for the eS-WiFi dialect, with
//     argument validation against the dialect's length limits.
//   - Response decoding into a tagged Success/Failure value, replacing
//     scattered substring checks with a single decode entry point.
//   - The connection state machine sequencing
//     initialize → join → open → request → close, with bounded, step-local
//     retries and an absorbing Faulted state.
//   - Outcome classification (Ok / Retryable / Fatal) consumed by the
//     status signaler and the orchestrator.
//
// Transport and codec errors never cross the driver boundary: every step
// translates them into one of the StateError sentinels (ErrInitFailed,
// ErrJoinFailed, ErrOpenFailed, ErrRequestFailed, ErrUnexpected) before
// returning. Credentials are supplied as immutable configuration and are
// never persisted or logged.
package eswifi
