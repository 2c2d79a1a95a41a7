// Package citation turns the text of a BibTeX-style bibliography into
// Citation records.
//
// Parsing is deliberately shallow. The text is cut at every '@' and each
// block is mined for two values:
//
//   - the identifier, taken from between the first '{' and the next ','
//   - the year, taken from a "year = {YYYY}" field
//
// Blocks without a year get DefaultYear. There is no support for nested
// braces or escaped characters, and an '@' inside a field value starts a
// new record.
//
// # Year policies
//
// YearFields (the default) runs a small tokenizer over every key = value
// pair of the block and reads the "year" entry. YearFixedWindow reproduces
// the historical behavior of reading four characters at a fixed offset
// after the first occurrence of "year".
package citation
