package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

// Entity names the entity a message is about
func Entity(name string) Field {
	return String("entity", name)
}

func RuleID(id string) Field {
	return String("rule_id", id)
}

func ReportID(id string) Field {
	return String("report_id", id)
}

func Classifier(name string) Field {
	return String("classifier", name)
}

// Stage names an analysis stage, such as deep_cycles or propagation
func Stage(name string) Field {
	return String("stage", name)
}

// Source is where a model was loaded from: a file path, s3 URL or DSN driver
func Source(s string) Field {
	return String("source", s)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}
