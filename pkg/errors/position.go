package errors

// Position describes a 1-based location in a source file.
type Position struct {
	Line   int
	Column int
}
