package handler

// APIV1Prefix is the base path of every versioned route, secured or not.
const APIV1Prefix = "/api/v1"

// Headers read or written by the middleware chain.
const (
	// HeaderAccountID carries the authenticated account id set by the upstream gateway.
	HeaderAccountID = "X-Account-ID"
	HeaderRequestID = "X-Request-ID"
)
