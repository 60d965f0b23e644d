// Package http provides the request transaction engine used by hitsend.
//
// A caller builds a Request, picks the Sender matching the body shape and
// calls Send once:
//   - GetSender sends no body
//   - PostSender streams the Request's raw body
//   - FilePostSender encodes the Request's parameters as multipart/form-data
//
// Every transaction opens its own connection and releases it before Send
// returns. Transport failures are reported as *TransportError; 4xx and 5xx
// replies are ordinary Responses.
package http
