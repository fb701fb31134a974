// Command apkglink is a batch front-end over linkdb: point it at a
// directory of package descriptors and it loads them into a database,
// then runs one of the link-resolution operations against the result.
// Grounded on the teacher's main.go/ctrl.go for its logging and
// signal-handling style, trimmed to a batch tool: no FUSE mount, no
// update thread. Every subcommand runs once and exits, except watch,
// which keeps the database in sync with a directory until interrupted.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/apkglink/apkglink/applog"
)

var log = applog.New("apkglink", applog.LevelInfo, nil)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "load":
		err = runLoad(args)
	case "check":
		err = runCheck(args)
	case "relink":
		err = runRelink(args)
	case "conflicts":
		err = runConflicts(args)
	case "watch":
		err = runWatch(args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Errorf("%s: %s", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: apkglink <load|check|relink|conflicts|watch> [flags]")
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs
}
