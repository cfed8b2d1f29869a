// Package router adapts julienschmidt/httprouter to handlers of the form
// func(*Request) (any, error).
//
// Successful results are encoded as flat JSON bodies. Errors are rendered from
// *goerror.Error: client errors as {"error": msg} and server errors as
// {"status":"error","message": msg}. Every route runs behind the same
// middleware stack: panic recovery, real IP, correlation id, observability,
// maintenance switch and bearer-token authentication for non-public routes.
package router
