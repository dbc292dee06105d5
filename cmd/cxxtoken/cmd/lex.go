package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gocc/cxxtoken/pkg/cursor"
	"github.com/gocc/cxxtoken/pkg/token"
	"github.com/gocc/cxxtoken/pkg/version"
)

var (
	lexStd        string
	lexOnlyErrors bool
	lexEval       string
	lexShowLength bool
	lexColor      bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a C or C++ source file and print its token stream",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	lexCmd.Flags().StringVar(&lexStd, "std", "c++26", "standard version to scan under (c89..c23, c++11..c++26)")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "print only tokens that represent a lexical error")
	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize the given string instead of a file")
	lexCmd.Flags().BoolVar(&lexShowLength, "show-length", false, "print each token's byte length alongside its kind")
	lexCmd.Flags().BoolVar(&lexColor, "color", true, "colorize error tokens in the output")
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	src, lang, err := sourceFor(args)
	if err != nil {
		return err
	}

	vers, err := resolveVersion(lexStd, lang)
	if err != nil {
		return err
	}

	c := cursor.New(src, vers)

	// Mirrors the preprocessor directive state a real front end tracks
	// around the cursor: only the token right after the "include"
	// identifier on a "#include" line is scanned with header-name
	// literals enabled.
	state := driverNone
	count, errCount := 0, 0

	for !c.AtEOF() {
		rest := c.Remaining()
		var tok token.Token
		if state == driverInclude {
			tok = c.NextTokenHeader()
		} else {
			tok = c.NextToken()
		}
		state = advanceDriverState(state, tok, rest[:tok.Length()])

		count++
		if tok.Kind().IsError() {
			errCount++
		}
		if lexOnlyErrors && !tok.Kind().IsError() {
			continue
		}
		printToken(tok)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%d tokens, %d errors\n", count, errCount)
	}
	if errCount > 0 {
		return fmt.Errorf("%d lexical error(s) found", errCount)
	}
	return nil
}

// driverState tracks just enough preprocessor-directive context to
// decide when a header-name literal is legal, matching the {None,
// Pound, Include} example state machine this cursor is designed to
// sit underneath.
type driverState int

const (
	driverNone driverState = iota
	driverPound
	driverInclude
)

func advanceDriverState(s driverState, tok token.Token, text string) driverState {
	switch tok.Kind().Tag {
	case token.Whitespace:
		if tok.HasNewLine() {
			return driverNone
		}
		return s
	case token.LineComment, token.BlockComment:
		return s
	case token.Pound:
		if s == driverNone {
			return driverPound
		}
	case token.Identifier:
		if s == driverPound && text == "include" {
			return driverInclude
		}
	}
	return driverNone
}

func printToken(tok token.Token) {
	line := fmt.Sprintf("%s flags: %s", tok.Kind(), tok.Flags())
	if lexShowLength {
		line = fmt.Sprintf("%s length: %d, %s", tok.Kind(), tok.Length(), tok.Flags())
	}
	if tok.Kind().IsError() && lexColor {
		line = color.RedString(line)
	}
	fmt.Println(line)
}

func sourceFor(args []string) (string, version.Language, error) {
	if lexEval != "" {
		return lexEval, version.Cpp, nil
	}
	if len(args) == 0 {
		return "", version.Cpp, fmt.Errorf("lex: either a file argument or --eval is required")
	}
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", version.Cpp, err
	}
	lang := version.Cpp
	if isCFile(args[0]) {
		lang = version.C
	}
	return string(data), lang, nil
}

func isCFile(name string) bool {
	for i := len(name) - 1; i >= 0; i-- {
		switch name[i] {
		case '.':
			return name[i:] == ".c" || name[i:] == ".h"
		case '/':
			return false
		}
	}
	return false
}

func resolveVersion(std string, lang version.Language) (version.StdVersion, error) {
	if std == "" {
		if lang == version.C {
			return version.CDefaultVersion, nil
		}
		return version.CppDefaultVersion, nil
	}
	return version.Parse(std)
}
