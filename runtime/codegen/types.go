package codegen

// source is the plain TempResult: an expression already rendered to text.
type source string

func (s source) String() string {
	return string(s)
}

// NewTempResult wraps rendered Go source.
func NewTempResult(code string) TempResult {
	return source(code)
}
