// Command vvpdump assembles a VM assembly text file, reports any compile
// diagnostics, dumps the resulting functor graph and code space, and
// optionally runs the scheduler for a fixed number of steps.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/xinlnix/iverilog/vm"
)

func main() {
	steps := flag.Int("run", 0, "run the scheduler for this many steps after assembling")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: vvpdump [-run N] file.vvp")
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	a := vm.NewAssembler()
	a.Assemble(string(src))
	a.Cleanup()

	for _, diag := range a.Errors() {
		log.Print("error: ", diag)
	}
	if a.ErrorCount() > 0 {
		os.Exit(1)
	}

	os.Stdout.WriteString(a.Dump())

	if *steps > 0 {
		s := vm.NewScheduler(a)
		n, err := s.Run(*steps)
		for _, diag := range s.Errors() {
			log.Print("runtime error: ", diag)
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("ran %d time advance(s), final time %d", n, s.Time)
	}
}
