// Package reader turns source documents into ordered chunk records.
//
// Two variants exist, selected by core.FileType:
//   - PDF: one unit per physical page, extracted with unipdf
//   - Parquet: one unit per row, read with Apache Arrow
//
// Every unit is re-chunked independently by a newline-preferring splitter
// (2000 characters, 200 overlap by default), so chunk boundaries never cross a
// page or row. Each chunk carries file_name, page_no, total_pages, category and
// sub_category metadata, and its content-addressed identifier is returned in a
// slice aligned with the chunks.
package reader
