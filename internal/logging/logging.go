package logging

import "go.uber.org/zap"

// New builds a zap logger for the given environment. Anything other than
// "production" gets the human-readable development config.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
