// Package logging wraps zap with context-aware logging for boardroomd.
//
// Loggers carry request correlation (request ID, user ID, workspace ID) from
// context.Context so every log line for a request can be joined without
// threading fields through call sites.
package logging
