package errors

// User-friendly error messages
const (
	MsgUnauthenticated    = "Rex rejected the login details. Please check the email and password."
	MsgNoSession          = "The gateway is not logged in to Rex. Log in first."
	MsgServiceNotFound    = "Unknown Rex service."
	MsgRecordNotFound     = "The requested record does not exist."
	MsgServiceUnavailable = "Rex cannot be reached right now. Please try again in a few minutes."
	MsgUpstreamTimeout    = "Rex took too long to answer. Please try again."
	MsgUpstreamError      = "Rex returned an error for this request."
	MsgRateLimited        = "Too many requests. Please wait a moment and try again."
	MsgInvalidParameters  = "The provided parameters are invalid. Please check your input and try again."
	MsgInternalError      = "Something went wrong on our end. Please try again later."
)
