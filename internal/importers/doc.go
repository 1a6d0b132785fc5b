// Package importers loads the book catalog from CSV.
//
// # Format
//
// The first line is a header and is skipped. Every following line has exactly
// four fields in this order:
//
//	isbn,title,author,year
//	0547928221,The Hobbit,J.R.R. Tolkien,1937
//
// # Loading
//
// CatalogLoader validates the whole file before touching the database. Rows
// with the wrong number of fields, an empty or repeated ISBN, or a non-numeric
// year are collected into a *CatalogError and nothing is written. A valid
// catalog is inserted through BookStore.CreateBooks, which commits all rows in
// one transaction or none of them.
package importers
