package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"tblgen/common"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + message)
}

// displayStdError displays a standard Go error under the given tag.
func displayStdError(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// displayInfo displays an informational message under the given tag.
func displayInfo(tag, msg string) {
	fmt.Println(InfoStyleBG.Sprint(tag), InfoColorFG.Sprint(msg))
}

// -----------------------------------------------------------------------------

// displayCompileError displays a compile error: a banner naming the error kind
// and file, the message, and the erroneous source text if it can be read.
func displayCompileError(cerr *CompileError) {
	displayBanner(cerr)

	if cerr.Span == nil {
		fmt.Println(cerr.Message)
		return
	}

	fmt.Printf("%d:%d: %s\n", cerr.Span.StartLine+1, cerr.Span.StartCol+1, cerr.Message)
	displaySourceText(cerr.Path, cerr.Span)
}

// displayBanner displays the banner on top of all compilation messages.
func displayBanner(cerr *CompileError) {
	fmt.Print("\n-- ")

	kindStr := strings.Title(KindName(cerr.Kind)) + " Error"
	ErrorStyleBG.Print(kindStr)
	fmt.Print(" ")

	fileName := filepath.Base(cerr.Path)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(fileName) - len(kindStr) - 1
	if dashCount < 1 {
		dashCount = 1
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// displaySourceText displays a segment of source text defined by a text span.
// Sources that cannot be reopened (eg. in-memory input) are silently skipped.
func displaySourceText(path string, span *TextSpan) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, sc.Text())
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Tabs are expanded for display, so span columns are converted into
	// display columns.
	displayLines := make([]string, len(lines))
	minIndent := math.MaxInt32
	for i, line := range lines {
		displayLines[i] = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))

		lineIndent := len(displayLines[i]) - len(strings.TrimLeft(displayLines[i], " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	fmt.Println()
	for i, line := range displayLines {
		InfoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// Only the first line starts part way through, only the last line
		// stops part way through.
		prefix := 0
		if i == 0 {
			prefix = displayColumn(lines[i], span.StartCol) - minIndent
		}

		end := len(line)
		if i == len(lines)-1 {
			if endCol := displayColumn(lines[i], span.EndCol); endCol < end {
				end = endCol
			}
		}

		count := end - minIndent - prefix
		if prefix < 0 {
			prefix = 0
		}
		if count < 1 {
			count = 1
		}

		fmt.Print(strings.Repeat(" ", prefix))
		ErrorColorFG.Println(strings.Repeat("^", count))
	}

	fmt.Println()
}

// tabWidth is the number of spaces a tab is expanded to for display.
const tabWidth = 4

// displayColumn converts a character column of a source line into its column
// once tabs are expanded.
func displayColumn(line string, col int) int {
	dcol := 0
	for i, c := range []rune(line) {
		if i == col {
			break
		}

		if c == '\t' {
			dcol += tabWidth
		} else {
			dcol++
		}
	}

	return dcol
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays the tool version and the selected backend.
func displayCompileHeader(backendName string) {
	fmt.Print("tblgen ")
	InfoColorFG.Print("v" + common.Version)
	fmt.Print(" -- backend: ")
	InfoColorFG.Println(backendName)
}

// displayFinished displays the concluding message of a run.
func displayFinished(success bool, outputPath string) {
	if success {
		SuccessColorFG.Print("All done! ")
		if outputPath == "" {
			fmt.Println("(output written to stdout)")
		} else {
			fmt.Printf("(output written to %s)\n", outputPath)
		}
	} else {
		ErrorColorFG.Println("Oh no! Generation failed; no output was written.")
	}
}
