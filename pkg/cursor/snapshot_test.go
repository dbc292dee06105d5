package cursor

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/gocc/cxxtoken/pkg/version"
)

// dumpTokens renders a token stream one line per token, the way a
// caller diffing cursor output against a golden file would want to
// read it.
func dumpTokens(src string, vers version.StdVersion) string {
	c := New(src, vers)
	var b strings.Builder
	for !c.AtEOF() {
		b.WriteString(c.NextToken().String())
		b.WriteByte('\n')
	}
	return b.String()
}

func TestSnapshotSmallProgram(t *testing.T) {
	src := `#include <stdio.h>

int main(void) {
    // print a greeting
    printf("hello, %d\n", 42);
    return 0;
}
`
	snaps.MatchSnapshot(t, dumpTokens(src, version.C17))
}

func TestSnapshotCppFeatures(t *testing.T) {
	src := `auto x = 1'000'000;
auto s = u8R"(raw text)";
auto c = U'\U0001F600';
`
	snaps.MatchSnapshot(t, dumpTokens(src, version.Cpp23))
}
