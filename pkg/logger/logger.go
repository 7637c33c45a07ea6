package logger

import "go.uber.org/zap"

// New builds the process-wide zap logger. Debug mode switches to the
// development config with console output and DEBUG level.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
