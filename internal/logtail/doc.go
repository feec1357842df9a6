// Package logtail reads the tail of photowall's log file and renders its slog
// JSON records for a terminal.
//
// Read uses a ring buffer of maxLines entries, so it scans the file once and
// keeps only the lines it will return. A missing file returns no lines and no
// error.
//
// Parse turns a JSON record into an Entry; String and Colorize render it as
//
//	15:04:05 INFO new entries found component=poller new=2 total=14
//
// with the component attribute first and the rest in key order. Lines that
// are not JSON pass through unchanged.
package logtail
