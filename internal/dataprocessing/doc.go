// Package dataprocessing turns the supply-chain workbook into an immutable
// domain.Dataset.
//
// # Data Flow
//
//	Excel File → Loader (excelize) → DataFrame (gota) → Normalizer → domain.Dataset
//
// The Loader reads one sheet into a frame of string columns, keeping the
// header names exactly as written. The Normalizer then runs four steps in a
// fixed order:
//
//  1. parse "Order Date" and "Delivery Date" as calendar dates
//  2. derive "Lead Time (Days)" when the column is absent or entirely empty
//  3. canonicalize column names (trim, spaces to underscores, lowercase)
//  4. coerce "delivery_performance_(%)" to a number
//
// and finally projects the frame into typed domain.Order records so nothing
// downstream looks columns up by name.
//
// # Error Handling
//
// Failures are fatal and never partial. Errors wrap one of two sentinels:
//
//	ErrLoad   the file is missing, unreadable or not in the expected shape
//	ErrParse  a cell in an expected column cannot be parsed
//
// Parse errors are *ParseError values naming the column, row and offending text.
//
// # Usage
//
//	ds, err := dataprocessing.LoadDataset("supplaychain.xlsx", "")
//	if err != nil {
//	    return err
//	}
package dataprocessing
