// Package logease provides a pluggable, destination-based logger.
//
// A Logger owns a set of destinations and fans every leveled event out to each
// destination whose minimum level permits it. Destinations format the event on
// their own and deliver it to a console or to a size-rotated log file.
//
// Features:
//   - Five severities: verbose, debug, info, warning, error
//   - Per-destination minimum level, display toggles and sync/async delivery
//   - Lazy message evaluation, skipped entirely when no destination accepts the level
//   - One serial execution context per destination, preserving submission order
//   - File rotation by size with a bounded chain of numbered backups
//   - YAML configuration and a package-level default logger in the quick package
//   - Failures of a destination never reach the caller; they are reported on stderr
//
// Lixen Wraith, 2024
package logease
