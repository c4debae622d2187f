package events

import "time"

// CompileStart is emitted before compiling a query document.
type CompileStart struct {
	SchemaPath string
	QueryFiles []string
}

// CompileFinish is emitted after compilation.
type CompileFinish struct {
	Operations int
	Fragments  int
	Err        error
	Duration   time.Duration
}

// GenerateStart is emitted before emitting one declaration.
type GenerateStart struct {
	Kind string // "operation", "fragment" or "type"
	Name string
}

// GenerateFinish is emitted after emitting one declaration.
type GenerateFinish struct {
	Kind     string
	Name     string
	Err      error
	Duration time.Duration
}

// FileWritten is emitted after an output file is persisted.
type FileWritten struct {
	Path  string
	Bytes int
}
