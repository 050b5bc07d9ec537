package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/edwar64896/pyaaf2/aaf"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aafdump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	flat := fs.Bool("flat", false, "dump objects in instance-id order instead of following the reference tree")
	mxfMode := fs.Bool("mxf", false, "treat the input as a raw MXF KLV stream instead of an AAF compound file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: aafdump [-flat] [-mxf] <file>")
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	write := func(line string) { fmt.Fprintln(stdout, line) }

	if *mxfMode {
		mf, err := aaf.ReadMXF(data)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if op, ok := mf.OperationPattern(); ok {
			write("OperationPattern " + op)
		}
		if *flat {
			mf.DumpFlat(write)
		} else {
			mf.Dump(write, nil, "")
		}
		return 0
	}

	f, err := aaf.Open(data, aaf.NopLogger{})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer f.Close()

	dumpAAF(write, f.Header, "")
	return 0
}

// dumpAAF writes a tree-shaped dump of o and its strong-ref descendants,
// the AAF-side analogue of MXFFile.Dump.
func dumpAAF(write func(string), o *aaf.Object, indent string) {
	write(fmt.Sprintf("%s%s", indent, o.Class.Name))
	next := indent + " "
	for _, pv := range o.Properties() {
		switch pv.Descriptor.Storage {
		case aaf.StorageStrongRef:
			if child, ok := pv.Value.(*aaf.Object); ok && child != nil {
				write(next + pv.Descriptor.Name + ":")
				dumpAAF(write, child, next+" ")
			}
		case aaf.StorageSet:
			if set, ok := pv.Value.(*aaf.Set); ok {
				write(fmt.Sprintf("%s%s [%d]", next, pv.Descriptor.Name, set.Len()))
				for _, item := range set.Items() {
					dumpAAF(write, item, next+" ")
				}
			}
		case aaf.StorageVariableArray:
			if arr, ok := pv.Value.(*aaf.VariableArray); ok {
				write(fmt.Sprintf("%s%s [%d]", next, pv.Descriptor.Name, arr.Len()))
				for _, item := range arr.Items() {
					dumpAAF(write, item, next+" ")
				}
			}
		default:
			write(fmt.Sprintf("%s%s = %v", next, pv.Descriptor.Name, pv.Value))
		}
	}
}
