package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid config, unopenable source)
	ExitDataError   = 3 // Data error (malformed rows, referential integrity failure)
)
