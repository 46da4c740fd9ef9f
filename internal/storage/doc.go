// Package storage provides CSV-based persistence for the story archive.
//
// The archive holds the full snapshot of the latest run: a fixed header followed
// by one row per story (post time, category, title, summary). It is replaced as
// a whole on every successful run by writing a temporary file and renaming it
// over the old one. Files are written with a UTF-8 byte-order mark so
// spreadsheet tools pick the right encoding; the mark is tolerated on read.
package storage
