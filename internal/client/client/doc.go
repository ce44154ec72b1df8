// Package client talks to the Shadow Shield HTTP API.
//
// # Overview
//
// The package provides a transport-agnostic contract (see the Client
// interface) and a net/http implementation (see HTTPClient) covering login,
// vault upload, listing, download and the health probe.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. Non-2xx replies become
// *APIError values that unwrap to common.ErrorNotFound,
// common.ErrDecryptionFailed, common.ErrAlreadyExists or ErrServer, so
// callers can match with errors.Is.
//
// Every request carries a fresh X-Request-ID so client and server log lines
// can be correlated.
package client
