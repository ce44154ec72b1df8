package common

// RequestIDHeaderName is the HTTP header carrying the per-request correlation
// ID. The server generates one when the caller did not send it.
const RequestIDHeaderName = "X-Request-ID"

// VaultSuffix marks a stored vault entry as an encrypted artifact.
const VaultSuffix = ".enc"
