package generator

import (
	"log/slog"

	"github.com/calumari/rowmap/internal/diagnostic"
)

// GeneratedHeader marks every file written by the generator. Files carrying
// it are treated as disposable: they are blanked before loading and may be
// overwritten or removed.
const GeneratedHeader = "// Code generated by rowmapgen. DO NOT EDIT."

// Config holds generation settings for one package directory.
type Config struct {
	Dir       string // package directory to load
	Output    string // output filename, relative to Dir
	Policy    string // default error policy for MapRow
	Naming    string // fallback column naming strategy
	Accessors bool   // generate Set<Field> and getters
	Stringer  bool   // generate String()
	Equal     bool   // generate Equal(other)
	Check     bool   // report stale output instead of writing it
	Command   string // canonical command line recorded in the header
	Version   string // rowmapgen build version

	Logger *slog.Logger
	Diags  *diagnostic.Collector
}

// Result describes what a run did to the output file.
type Result struct {
	Dir       string
	Path      string
	Package   string
	Classes   int // annotated declarations found
	Members   int // members generated
	Written   bool
	Removed   bool
	Unchanged bool
	Stale     bool // Check mode: output differs from what would be written
}
