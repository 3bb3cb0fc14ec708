// Package main - init.go writes a starter configuration file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/modelpulse/modelpulse/internal/config"
)

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	global := fs.Bool("global", false, "write to ~/.config/modelpulse/config.yaml instead of ./modelpulse.yaml")
	force := fs.Bool("force", false, "overwrite an existing config file without asking")
	noBanner := fs.Bool("no-banner", false, "suppress startup banner")
	_ = fs.Parse(args) // ExitOnError handles errors

	if !*noBanner {
		printBanner()
	}

	target := "modelpulse.yaml"
	if *global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			printError(fmt.Sprintf("cannot resolve home directory: %v", err))
			os.Exit(1)
		}
		target = filepath.Join(homeDir, ".config", "modelpulse", "config.yaml")
	}

	if _, err := os.Stat(target); err == nil && !*force {
		printWarn(fmt.Sprintf("%s already exists", target))
		if !promptYesNo("Overwrite it?") {
			printInfo("Keeping the existing file")
			return
		}
	}

	data := starterConfig()
	// The asset must always pass the loader it is written for.
	if _, err := config.LoadFromBytes(data); err != nil {
		printError(fmt.Sprintf("embedded starter config is invalid: %v", err))
		os.Exit(1)
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			printError(fmt.Sprintf("cannot create %s: %v", dir, err))
			os.Exit(1)
		}
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		printError(fmt.Sprintf("cannot write %s: %v", target, err))
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Wrote %s", target))
	fmt.Println()
	fmt.Println("  Next steps:")
	fmt.Println("    1. Adjust thresholds and engine toggles to taste")
	fmt.Println("    2. Enable history sinks or the live feed if you want them")
	fmt.Println("    3. Try it out: modelpulse demo")
	fmt.Println()
}

// promptYesNo asks on stdin, defaulting to no. Non-interactive runs take the
// default without blocking.
func promptYesNo(question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Printf("%s [y/N]: ", question)
	input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}

func printSuccess(msg string) {
	fmt.Printf("\033[0;32m[OK]\033[0m %s\n", msg)
}

func printInfo(msg string) {
	fmt.Printf("\033[0;34m[INFO]\033[0m %s\n", msg)
}

func printWarn(msg string) {
	fmt.Printf("\033[1;33m[WARN]\033[0m %s\n", msg)
}

func printError(msg string) {
	fmt.Printf("\033[0;31m[ERROR]\033[0m %s\n", msg)
}
