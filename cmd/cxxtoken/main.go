// Command cxxtoken drives the lexical cursor over a source file from
// the command line, printing the resulting token stream.
package main

import "github.com/gocc/cxxtoken/cmd/cxxtoken/cmd"

func main() {
	cmd.Execute()
}
