// Package codec converts directory contents to and from bytes.
//
// Two encodings live here:
//
//   - The snapshot envelope, a canonical JSON document written by the file
//     store. Keys are sorted, HTML characters are not escaped and
//     values are kept byte for byte, so the same directory always produces
//     the same bytes and loads back unchanged.
//   - Import/export documents, a plain list of contacts in JSON or YAML for
//     moving data in and out of a directory.
package codec
