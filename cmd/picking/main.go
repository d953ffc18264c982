// Command picking groups the entries of a directory into packs that each fit
// a size limit, e.g. one pack per disc:
//
//	picking 4483MB ~/music
//
// Every pack is printed as its size in the unit of the limit followed by the
// tab-indented entry names. Entries larger than the limit are listed under
// "Overflow:".
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
