// Command rowmapgen generates MapRow methods and constructors for struct
// types annotated with //rowmap:data.
//
// Typical use is a go:generate line next to the models:
//
//	//go:generate go run github.com/calumari/rowmap/cmd/rowmapgen gen
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// CLI is the command tree.
type CLI struct {
	Gen     GenCmd     `cmd:"" default:"withargs" help:"Generate row mappers for annotated types."`
	Check   CheckCmd   `cmd:"" help:"Report packages whose generated row mappers are missing or out of date."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// env carries the process streams into commands.
type env struct {
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("rowmapgen"),
		kong.Description("Generates row mappers for Go structs annotated with //rowmap:data."),
		kong.UsageOnError(),
		kong.Bind(&env{stdout: os.Stdout, stderr: os.Stderr}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
