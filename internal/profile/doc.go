// Package profile holds the user measurements required before a capture
// session may start. The controller only consumes the Provider interface;
// the TOML file provider is the default implementation.
package profile
