// Command tasmvm runs a compiled tasm namespace through the tick-based
// simulator: headless to a final snapshot, attached to the terminal
// viewer, or behind an HTTP/WebSocket API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/arrowslasharrow/tasm/api"
	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/namespace"
	"github.com/arrowslasharrow/tasm/sim"
	"github.com/arrowslasharrow/tasm/tui"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		tuiMode     = flag.Bool("tui", false, "Attach the terminal viewer")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode instead of running a namespace directly")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		maxTicks    = flag.Uint64("max-ticks", 1000000, "Maximum ticks before forced halt (0 = unbounded)")
		fast        = flag.Bool("fast", false, "Run the headless mode without the configured tick rate throttle")
		sourcePath  = flag.String("source", "", "Original tasm source, shown in the -tui viewer's Source panel")
		verbose     = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tasmvm %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Simulator.Fast = cfg.Simulator.Fast || *fast

	if *apiServer {
		runAPIServer(*apiPort, *cfg)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}
	wirePath := flag.Arg(0)

	data, err := os.ReadFile(wirePath) // #nosec G304 -- user-specified namespace path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", wirePath, err)
		os.Exit(1)
	}
	ns, err := namespace.Unmarshal(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error unmarshaling namespace: %v\n", err)
		os.Exit(1)
	}

	machine, err := sim.NewSimulator(ns, *cfg)
	if errors.Is(err, sim.ErrNoEntryPoint) {
		fmt.Println("no _start routine found, nothing to run")
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building simulator: %v\n", err)
		os.Exit(1)
	}

	if *tuiMode {
		sourceText := ""
		if *sourcePath != "" {
			src, err := os.ReadFile(*sourcePath) // #nosec G304 -- user-specified source path
			if err != nil {
				fmt.Fprintf(os.Stderr, "error reading %s: %v\n", *sourcePath, err)
				os.Exit(1)
			}
			sourceText = string(src)
		}
		viewer := tui.NewViewer(machine, sourceText)
		if err := viewer.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "viewer error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *verbose {
		fmt.Printf("running %s (max ticks: %d)\n", wirePath, *maxTicks)
	}
	var runErr error
	if cfg.Simulator.Fast || cfg.Simulator.TickRate <= 0 {
		runErr = machine.Run(*maxTicks)
	} else {
		delay := time.Duration(float64(time.Second) / cfg.Simulator.TickRate)
		for machine.State == sim.StateRunning && (*maxTicks == 0 || machine.Tick < *maxTicks) {
			tickStart := time.Now()
			if runErr = machine.Step(); runErr != nil {
				break
			}
			time.Sleep(time.Until(tickStart.Add(delay)))
		}
	}
	if err := runErr; err != nil {
		fmt.Fprintf(os.Stderr, "simulator error: %v\n", err)
		os.Exit(1)
	}

	snap := machine.Snapshot()
	fmt.Printf("halted at tick %d, state=%s\n", snap.Tick, snap.State)
	for _, dv := range snap.Displayed {
		if dv.IsTimer {
			fmt.Printf("  %s = %.2f\n", dv.Label, dv.Float)
		} else {
			fmt.Printf("  %s = %d\n", dv.Label, dv.Int)
		}
	}
}

func runAPIServer(port int, cfg config.Config) {
	server := api.NewServer(port, cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nshutting down tasm api server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("tasm api server stopped")
			os.Exit(0)
		})
	}

	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "api server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Println("tasmvm - tasm simulator")
	fmt.Println()
	fmt.Println("Usage: tasmvm [flags] <namespace.tasmns>")
	fmt.Println()
	flag.PrintDefaults()
}
