package leadcheck

// HTTP status code constants.
const (
	StatusOK              = 200
	StatusAccepted        = 202
	StatusTooManyRequests = 429
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// File permission constants.
const (
	logFilePermission   = 0o600
	directoryPermission = 0o750
)
