// Package notifier provides notification interfaces and implementations for new
// Formula 1 stories.
//
// The notifier package composes a single plain-text digest listing every new
// story with its link, and delivers it by email over an implicit-TLS SMTP
// relay. A dry-run implementation prints the digest instead of sending it.
package notifier
