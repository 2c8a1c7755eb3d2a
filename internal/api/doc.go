// Package api implements the HTTP transport for the LaunchKey v1 API.
//
// The client is deliberately thin: it encodes form or JSON request bodies,
// sends one request, and hands back the status code and raw body. Mapping
// status categories to SDK errors, decoding response documents, and all
// envelope cryptography happen a layer up, so any custom transport can
// replace this one without re-implementing protocol rules.
package api
