// Package logtail reads the tail of the bodyscale log file.
//
// Read keeps a ring buffer of the last maxLines lines so large files are
// scanned once with bounded memory. Parse decodes the JSON records written
// by the logging package into Entry values for display; lines that are not
// records are shown as-is.
package logtail
