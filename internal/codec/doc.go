// Package codec reads and writes parameter values as "Label: value" text.
//
// Each written line is "<CanonicalName>: <value>". Writing is a plain
// truncating overwrite of the target file: there is no temporary file,
// rename or rollback, so a failed write can leave a partial file behind.
//
// Reading is tolerant. For every input, in index order, the first line that
// starts exactly with "<CanonicalName>:" supplies the value:
//
//   - the text after the first colon has leading whitespace removed
//   - the longest leading decimal literal is parsed ("20.5 extra" -> 20.5)
//   - a line with no literal parses as 0.0 and is reported as a fallback
//   - inputs with no matching line keep their previous value
//
// Matching is case-sensitive and does not allow whitespace before the colon.
package codec
