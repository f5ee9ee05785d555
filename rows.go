// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import "fmt"

// Rows is the row cursor returned by HDUHandle.Rows. Its cursor starts
// before the first row; call Next before the first Scan.
//
//	rows, err := handle.Rows()
//	...
//	for rows.Next() {
//	    var id int32
//	    var x float64
//	    err = rows.Scan(&id, &x)
//	    ...
//	}
//	err = rows.Err()
//
// Grounded closely on rows.go's Rows, kept in its original shape (per the
// module's grounding ledger) since the cursor/Scan contract is unaffected by
// the eager-to-streaming table redesign; only the row source underneath it
// changed, from Table.data/heap slices to Table.rowBytes/heapBytes.
type Rows struct {
	table  *Table
	n      int64
	cur    int64
	closed bool
	err    error
	row    []byte // raw bytes of the current row, cached by Scan
}

// Err returns the error, if any, encountered during iteration.
func (rows *Rows) Err() error { return rows.err }

// Close stops iteration, skipping any remaining rows and the table's heap.
// Idempotent; safe to call even after Next has returned false.
func (rows *Rows) Close() error {
	if rows.closed {
		return nil
	}
	rows.closed = true
	return rows.table.h.finish()
}

// Next advances the cursor to the next row. Returns false at the end of the
// table, after which Scan must not be called.
func (rows *Rows) Next() bool {
	if rows.closed {
		return false
	}
	rows.cur++
	if rows.cur >= rows.n {
		rows.err = rows.Close()
		return false
	}
	row, err := rows.table.rowBytes(rows.cur)
	if err != nil {
		rows.err = err
		rows.closed = true
		return false
	}
	rows.row = row
	return true
}

// Scan decodes the current row's columns into dest, in column order. A
// *VLADescriptor dest receives the raw descriptor; resolve its payload with
// Heap. Passing fewer dest than columns scans only the first len(dest).
func (rows *Rows) Scan(dest ...interface{}) error {
	if rows.row == nil {
		return fmt.Errorf("fitsio: Scan called before Next")
	}
	if len(dest) > len(rows.table.cols) {
		return fmt.Errorf("fitsio: Scan: %d destinations, table has %d columns", len(dest), len(rows.table.cols))
	}
	for i, d := range dest {
		col := rows.table.cols[i]
		raw := rows.row[col.Offset : col.Offset+col.Form.InRowSize()]
		v, err := decodeField(col.Form, raw)
		if err != nil {
			return err
		}
		if err := assign(d, v); err != nil {
			return fmt.Errorf("fitsio: Scan column %q: %w", col.Name, err)
		}
	}
	return nil
}

// Heap resolves a VLADescriptor obtained from Scan into its decoded payload:
// a []T slice matching the column's element type, except that a Count of 1
// yields a single T value and a char column yields a string.
func (rows *Rows) Heap(col int, d VLADescriptor) (interface{}, error) {
	if col < 0 || col >= len(rows.table.cols) {
		return nil, &OutOfRangeError{Reason: "column index out of range"}
	}
	form := rows.table.cols[col].Form
	raw, err := rows.table.heapBytes(d, int64(form.Elem.Size()))
	if err != nil {
		return nil, err
	}
	if raw == nil && d.Count > 0 {
		return nil, &OutOfRangeError{Reason: "VLA descriptor claims elements in an empty (PCOUNT=0) heap"}
	}
	return decodeFixed(FieldForm{Repeat: int(d.Count), Elem: form.Elem}, raw)
}

// assign stores v (the concrete decoded type) through dest, which must be a
// pointer to a matching type; *interface{} accepts any decoded value.
func assign(dest, v interface{}) error {
	switch p := dest.(type) {
	case *interface{}:
		*p = v
		return nil
	case *bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("value is %T, not bool", v)
		}
		*p = b
	case *byte:
		b, ok := v.(byte)
		if !ok {
			return fmt.Errorf("value is %T, not byte", v)
		}
		*p = b
	case *int16:
		b, ok := v.(int16)
		if !ok {
			return fmt.Errorf("value is %T, not int16", v)
		}
		*p = b
	case *int32:
		b, ok := v.(int32)
		if !ok {
			return fmt.Errorf("value is %T, not int32", v)
		}
		*p = b
	case *int64:
		b, ok := v.(int64)
		if !ok {
			return fmt.Errorf("value is %T, not int64", v)
		}
		*p = b
	case *float32:
		b, ok := v.(float32)
		if !ok {
			return fmt.Errorf("value is %T, not float32", v)
		}
		*p = b
	case *float64:
		b, ok := v.(float64)
		if !ok {
			return fmt.Errorf("value is %T, not float64", v)
		}
		*p = b
	case *complex64:
		b, ok := v.(complex64)
		if !ok {
			return fmt.Errorf("value is %T, not complex64", v)
		}
		*p = b
	case *complex128:
		b, ok := v.(complex128)
		if !ok {
			return fmt.Errorf("value is %T, not complex128", v)
		}
		*p = b
	case *string:
		b, ok := v.(string)
		if !ok {
			return fmt.Errorf("value is %T, not string", v)
		}
		*p = b
	case *VLADescriptor:
		b, ok := v.(VLADescriptor)
		if !ok {
			return fmt.Errorf("value is %T, not a VLA descriptor", v)
		}
		*p = b
	case *[]bool:
		b, ok := v.([]bool)
		if !ok {
			return fmt.Errorf("value is %T, not []bool", v)
		}
		*p = b
	case *[]byte:
		b, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("value is %T, not []byte", v)
		}
		*p = b
	case *[]int16:
		b, ok := v.([]int16)
		if !ok {
			return fmt.Errorf("value is %T, not []int16", v)
		}
		*p = b
	case *[]int32:
		b, ok := v.([]int32)
		if !ok {
			return fmt.Errorf("value is %T, not []int32", v)
		}
		*p = b
	case *[]int64:
		b, ok := v.([]int64)
		if !ok {
			return fmt.Errorf("value is %T, not []int64", v)
		}
		*p = b
	case *[]float32:
		b, ok := v.([]float32)
		if !ok {
			return fmt.Errorf("value is %T, not []float32", v)
		}
		*p = b
	case *[]float64:
		b, ok := v.([]float64)
		if !ok {
			return fmt.Errorf("value is %T, not []float64", v)
		}
		*p = b
	default:
		return fmt.Errorf("unsupported Scan destination type %T", dest)
	}
	return nil
}
