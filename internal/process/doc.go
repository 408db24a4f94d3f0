// Package process holds platform-specific cleanup for browser processes
// launched by a conversion.
package process
