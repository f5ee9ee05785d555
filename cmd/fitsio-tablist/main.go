// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	fits "github.com/gofits/fitsio"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		const msg = `Usage: fitsio-tablist filename

List the contents of every binary table extension in a FITS file.

Examples:
  fitsio-tablist tab.fits   - list every BINTABLE extension
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
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer r.Close()

	stream, err := fits.Open(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for {
		hdu, err := stream.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if hdu == nil {
			break
		}
		if hdu.Kind() != fits.BinTable {
			continue
		}

		xt := hdu.Xtension()
		ncols := xt.Tfields
		nrows := xt.NumRows()

		maxname := 10
		for _, name := range xt.Ttype {
			if len(name) > maxname {
				maxname = len(name)
			}
		}

		rows, err := hdu.Rows()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		hdrline := strings.Repeat("=", 80-15)
		rowfmt := fmt.Sprintf("%%-%ds | %%v\n", maxname)
		dest := make([]interface{}, ncols)
		for i := range dest {
			var v interface{}
			dest[i] = &v
		}

		for irow := int64(0); rows.Next(); irow++ {
			if err := rows.Scan(dest...); err != nil {
				fmt.Printf("Error: (row=%d) %v\n", irow, err)
				continue
			}
			fmt.Printf("== %05d/%05d %s\n", irow, nrows, hdrline)
			for i := 0; i < ncols; i++ {
				v := *(dest[i].(*interface{}))
				fmt.Printf(rowfmt, xt.Ttype[i], v)
			}
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}
