package trackers

import (
	"github.com/charmbracelet/log"
)

// Recorder is a sink for named scalar diagnostics
type Recorder interface {
	Record(key string, value float64)
}

// Tabular is a Recorder which keeps the most recent value of each key
// in the order keys were first recorded
type Tabular struct {
	keys   []string
	values map[string]float64
}

// NewTabular returns a new, empty Tabular
func NewTabular() *Tabular {
	return &Tabular{values: make(map[string]float64)}
}

// Record records value under key, replacing any previous value
func (t *Tabular) Record(key string, value float64) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value recorded under key
func (t *Tabular) Get(key string) (float64, bool) {
	value, ok := t.values[key]
	return value, ok
}

// Keys returns the recorded keys in the order they were first recorded
func (t *Tabular) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Log writes every recorded key and value as a single structured log
// line with message msg
func (t *Tabular) Log(logger *log.Logger, msg string) {
	keyvals := make([]interface{}, 0, 2*len(t.keys))
	for _, key := range t.keys {
		keyvals = append(keyvals, key, t.values[key])
	}
	logger.Info(msg, keyvals...)
}

// LogRecorder is a Recorder which logs each value as it is recorded
type LogRecorder struct {
	logger *log.Logger
}

// NewLogRecorder returns a Recorder which writes to logger
func NewLogRecorder(logger *log.Logger) *LogRecorder {
	return &LogRecorder{logger}
}

// Record logs value under key
func (l *LogRecorder) Record(key string, value float64) {
	l.logger.Info("record", "key", key, "value", value)
}
