package ui

import (
	"fmt"
	"sync"
)

// ASCII logo for the application
const ASCIILogo = `
    _____ __
  / ___// /_____  ____ __________ _____ ___  _____/ /_/ /
  \__ \/ __/ __ \/ __ '/ ___/ __ '/ __ '__ \/ ___/ __/ /
 ___/ / /_/ /_/ / /_/ / /  / /_/ / / / / / / /__/ /_/ /
/____/\__/\____/\__, /_/   \__,_/_/ /_/ /_/\___/\__/_/
               /____/      4K STOGRAM COMPANION
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

var (
	quietMu   sync.Mutex
	quietMode bool
)

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	quietMu.Lock()
	defer quietMu.Unlock()
	quietMode = quiet
}

func isQuiet() bool {
	quietMu.Lock()
	defer quietMu.Unlock()
	return quietMode
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if isQuiet() {
		return
	}
	fmt.Print(Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if isQuiet() {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled info message
func PrintInfo(label string, value string) {
	if isQuiet() {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if isQuiet() {
		return
	}
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if isQuiet() {
		return
	}
	fmt.Println(Magenta(msg))
}

// PrintLine prints a plain progress line
func PrintLine(msg string) {
	if isQuiet() {
		return
	}
	fmt.Println(msg)
}
