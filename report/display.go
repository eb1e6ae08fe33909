package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// displayCompileError displays a compilation error along with the span of
// source text it occurred over.
func displayCompileError(path string, ce *CompileError) {
	ErrorStyleBG.Print("Compile Error")

	if ce.Span == nil {
		fmt.Printf(" %s: %s\n\n", path, ce.Error())
		return
	}

	fmt.Printf(" %s:%d:%d: %s\n\n", path, ce.Span.StartLine+1, ce.Span.StartCol+1, ce.Error())
	displaySourceText(path, ce.Span)
}

// displayFatal displays a fatal error message.
func displayFatal(msg string) {
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + msg)
}

// displayICE displays an internal compiler error message.
func displayICE(msg string) {
	ErrorStyleBG.Print("Internal Error")
	ErrorColorFG.Println(" " + msg)
	fmt.Println("This error was not supposed to happen: please open an issue on GitHub")
}

// displayInfo displays a tagged informational message.
func displayInfo(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(path string, span *TextSpan) {
	// Open the file so we can read the desired source text.
	file, err := os.Open(path)
	if err != nil {
		// The script may not be on disk (eg. piped input); the positional
		// header printed above is still enough to locate the error.
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation so that the displayed snippet can
	// be dedented as a unit.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := 0
		for _, c := range line {
			if c == ' ' {
				lineIndent++
			} else {
				break
			}
		}

		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Calculate the maximum line number length and build the format string
	// used to print line numbers.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Printf(lineNumFmtStr, i+span.StartLine+1)
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// The number of columns to skip before underlining begins: zero for
		// every line but the first since underlining continues over from the
		// previous line.
		var carretPrefixCount int
		if i == 0 {
			carretPrefixCount = span.StartCol - minIndent
		}

		// The number of trailing columns left un-underlined: zero for every
		// line but the last since underlining spans onto the next line.
		var carretSuffixCount int
		if i == len(lines)-1 {
			carretSuffixCount = len(line) - span.EndCol
		}

		fmt.Print(strings.Repeat(" ", carretPrefixCount))
		fmt.Println(strings.Repeat("^", len(line)-carretSuffixCount-carretPrefixCount-minIndent))
	}

	fmt.Println()
}
