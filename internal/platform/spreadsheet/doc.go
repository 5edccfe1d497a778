// Package spreadsheet reads and writes vocabulary lists as xlsx workbooks
// (through excelize) or CSV files.
//
// Imported rows are turned into raw entries and passed through
// domain.NormalizeList, so spreadsheet data takes the same migration and
// dedup path as every other source.
package spreadsheet
