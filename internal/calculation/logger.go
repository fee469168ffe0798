package calculation

// Logger is a minimal logging interface for the projection engine.
// *zap.SugaredLogger satisfies it; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// Recorder receives simulation measurements. internal/metrics provides the Prometheus implementation.
type Recorder interface {
	ObserveSimulation(seconds float64, err error)
	GrossUpNotConverged(vehicle string)
}

// NopRecorder implements Recorder with no output.
type NopRecorder struct{}

func (NopRecorder) ObserveSimulation(seconds float64, err error) {}
func (NopRecorder) GrossUpNotConverged(vehicle string)            {}
