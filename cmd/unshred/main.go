package main

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/alecthomas/kong"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const description = `Reassembles an image that was cut into equal-width vertical strips and shuffled.

The strip width is inferred from seams unless --width is given. Solved images
are written next to the input with -sol before the extension.`

// Globals are flags shared by every command.
type Globals struct {
	LogLevel   string `name:"log-level" enum:"info,debug" default:"info" env:"UNSHRED_LOG_LEVEL" help:"Log verbosity (${enum})."`
	Debug      bool   `help:"Shorthand for --log-level=debug."`
	CPUProfile string `name:"cpuprofile" type:"path" help:"Write a CPU profile to this file."`
}

// CLI is the command tree.
type CLI struct {
	Globals

	Solve   SolveCmd   `cmd:"" default:"withargs" help:"Reassemble a shredded image."`
	Width   WidthCmd   `cmd:"" help:"Detect seams and estimate the strip width."`
	Match   MatchCmd   `cmd:"" help:"Print the neighbour match table as JSON."`
	Shred   ShredCmd   `cmd:"" help:"Cut an image into strips and shuffle them."`
	Verify  VerifyCmd  `cmd:"" help:"Check a solved image against the original."`
	Serve   ServeCmd   `cmd:"" help:"Run the MCP server on stdin/stdout."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

var cli CLI

var debugEnabled bool

// debugf logs only when debug logging is on.
func debugf(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf(format, args...)
	}
}

func main() {
	os.Exit(execute())
}

// execute runs the selected command and returns the process exit code.
// Deferred cleanup runs before main exits.
func execute() int {
	ctx := kong.Parse(&cli,
		kong.Name("unshred"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	// stdout is reserved for results and MCP traffic
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	debugEnabled = cli.Debug || cli.LogLevel == "debug"
	debugf("unshred %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	if cli.CPUProfile != "" {
		stop, err := startCPUProfile(cli.CPUProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unshred: %v\n", err)
			return 1
		}
		defer func() {
			if err := stop(); err != nil {
				log.Printf("failed to close CPU profile: %v", err)
			}
		}()
	}

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "unshred: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// startCPUProfile begins profiling into path. The returned func stops the
// profile and closes the file.
func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start CPU profile: %w", err)
	}
	return func() error {
		pprof.StopCPUProfile()
		return f.Close()
	}, nil
}
