// Package logtail reads the tail of shelf's own log file for the in-app log
// overlay.
//
// The file is scanned once front to back through a fixed-size ring buffer,
// so memory stays bounded by MaxLines no matter how large the log grows.
// Lines are expected in log/slog text format; MinLevel filtering looks at
// the level= attribute only.
package logtail
