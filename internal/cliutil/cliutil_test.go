package cliutil

import (
	"flag"
	"reflect"
	"testing"
)

func TestSplitFlagsAndPositionals(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	var b bool
	var s string
	fs.BoolVar(&b, "quiet", false, "")
	fs.StringVar(&s, "cutoff", "", "")

	flagArgs, posArgs := SplitFlagsAndPositionals(fs, []string{
		"run/", "--quiet", "--cutoff", "0.2", "t0.list", "--output=json", "-", "--", "--odd.list",
	})
	if !reflect.DeepEqual(flagArgs, []string{"--quiet", "--cutoff", "0.2", "--output=json"}) {
		t.Fatalf("flags=%v", flagArgs)
	}
	if !reflect.DeepEqual(posArgs, []string{"run/", "t0.list", "-", "--odd.list"}) {
		t.Fatalf("positionals=%v", posArgs)
	}
}
