// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"

	fits "github.com/gofits/fitsio"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		const msg = `Usage: fitsio-listhead filename

List the FITS header keywords of every HDU in the file, in order.

Examples:

   fitsio-listhead file.fits      - list every header in the file

Note that it may be necessary to enclose the input file
name in single quote characters on the Unix command line.
`
		fmt.Fprintf(os.Stderr, "%v\n", msg)
		flag.PrintDefaults()
	}

	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}

	fname := flag.Arg(0)
	r, err := os.Open(fname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "**error** %v\n", err)
		return 1
	}
	defer r.Close()

	stream, err := fits.Open(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "**error** %v\n", err)
		return 1
	}

	for i := 0; ; i++ {
		hdu, err := stream.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "**error** %v\n", err)
			return 1
		}
		if hdu == nil {
			break
		}

		hdr := hdu.Header()
		fmt.Printf("Header listing for HDU #%d (%s):\n", i, hdu.Kind())
		for k := 0; k < hdr.Len(); k++ {
			card := hdr.Card(k)
			switch card.Kind {
			case fits.KindCommentary:
				fmt.Printf("%-8s%s\n", card.Name, card.Comment)
			case fits.KindEnd:
				fmt.Printf("END\n")
			case fits.KindBlank:
			default:
				fmt.Printf("%-8s= %-29v / %s\n", card.Name, card.Value, card.Comment)
			}
		}
		fmt.Println()
	}

	return 0
}
