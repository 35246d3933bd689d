package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed is returned when diagnostics of error severity
	// were reported for a package.
	ErrGenerationFailed = errors.New("rowmapgen: code generation failed")
	// ErrLoad is wrapped by package loading failures.
	ErrLoad = errors.New("rowmapgen: load package")
	// ErrForeignOutput is returned instead of overwriting a file that was not
	// produced by the generator.
	ErrForeignOutput = errors.New("rowmapgen: output file is not generated")
)

// GenerationError summarizes a failed package.
type GenerationError struct {
	Dir    string
	Errors int
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("rowmapgen: %s: %d error(s)", e.Dir, e.Errors)
}

// Is reports whether the target matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}
