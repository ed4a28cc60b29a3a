// Package notifications delivers push notifications through ntfy. The
// service degrades to a noop when no topic is configured, so callers never
// branch on whether notifications are enabled.
package notifications
