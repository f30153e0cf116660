// Command thurbox is Thurbox's one interactive binary: a terminal
// orchestrator hosting several long-lived coding-assistant child processes
// inside a shared tmux server, multiplexed into a single TUI. Structured
// the way the teacher's cmd/thicc/micro.go structures its own entrypoint:
// flags, InitXxx calls in sequence, a panic-recovery hook that restores
// the terminal, then a blocking event loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	isatty "github.com/mattn/go-isatty"
	"github.com/micro-editor/tcell/v2"

	"github.com/thurbeen/thurbox/internal/app"
	"github.com/thurbeen/thurbox/internal/backend"
	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/store"
	"github.com/thurbeen/thurbox/internal/thurerr"
)

var (
	flagVersion   = flag.Bool("version", false, "Show the version number and exit")
	flagConfigDir = flag.String("config-dir", "", "Specify a custom location for the configuration directory")
	flagDataDir   = flag.String("data-dir", "", "Specify a custom location for the data directory")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging to <data-dir>/thurbox.log")

	version = "dev"
)

func main() {
	flag.Usage = func() {
		fmt.Println("Usage: thurbox [OPTIONS]")
		fmt.Println("")
		fmt.Println("Options:")
		fmt.Println("  -version           Show version and exit")
		fmt.Println("  -config-dir <dir>  Use a custom configuration directory")
		fmt.Println("  -data-dir <dir>    Use a custom data directory")
		fmt.Println("  -debug             Enable debug logging")
	}
	flag.Parse()

	if *flagVersion {
		fmt.Println("thurbox", version)
		os.Exit(0)
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "thurbox: stdin and stdout must be a terminal")
		os.Exit(1)
	}

	if err := config.InitConfigDir(*flagConfigDir); err != nil {
		fmt.Fprintln(os.Stderr, "thurbox:", err)
	}
	if err := config.InitDataDir(*flagDataDir); err != nil {
		fmt.Fprintln(os.Stderr, "thurbox:", err)
		os.Exit(1)
	}
	logFile, err := config.InitLogging(*flagDebug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "thurbox:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := config.InitTheme(themePath()); err != nil {
		config.Logger.Printf("theme load failed, using defaults: %v", err)
	}
	if os.Getenv("NO_COLOR") != "" {
		config.ApplyNoColor()
	}

	st, err := store.Open(config.DataDir)
	if err != nil {
		fatalInit("failed to open store", err)
	}
	defer st.Close()

	if err := st.ImportLegacyConfig(config.ConfigDir); err != nil {
		config.Logger.Printf("legacy config import failed: %v", err)
	}

	mux := backend.NewLocalMux("thurbox")
	bgCtx, cancelBg := context.WithTimeout(context.Background(), 5*time.Second)
	if err := mux.CheckAvailable(bgCtx); err != nil {
		cancelBg()
		fatalInit("tmux is not available", err)
	}
	cancelBg()

	projects, sessions, err := loadInitialState(st)
	if err != nil {
		fatalInit("failed to load initial state", err)
	}
	model := app.NewModel(projects, sessions)

	if err := writeAdminMcpConfig(); err != nil {
		config.Logger.Printf("failed to write admin mcp config: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fatalInit("failed to initialize terminal screen", err)
	}
	if err := screen.Init(); err != nil {
		fatalInit("failed to initialize terminal screen", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()
	screen.SetStyle(config.DefStyle)

	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			printCrashReport(r)
			panic(r)
		}
	}()

	runner := newRunner(st, mux, model, screen)
	runner.run()

	screen.Fini()
	os.Exit(runner.exitCode)
}

func themePath() string {
	return config.ConfigDir + string(os.PathSeparator) + "theme.yaml"
}

func fatalInit(message string, cause error) {
	err := thurerr.Fatal(message, cause)
	fmt.Fprintln(os.Stderr, "thurbox: fatal:", err)
	config.Logger.Printf("fatal: %v", err)
	os.Exit(1)
}

// listenForSignals reports SIGTERM/SIGINT/SIGHUP on a channel the run loop
// treats the same as Ctrl+Q: detach every session, persist, exit clean.
func listenForSignals() chan os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	return sig
}
