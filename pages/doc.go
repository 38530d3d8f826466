// Package pages discovers and loads the page images a pipeline run
// consumes.
//
// # Page Discovery
//
// [List] walks a directory for page images and returns them in natural
// reading sequence: filenames are compared with numeric collation so
// that "page2.png" sorts before "page10.png".
//
// # Archives
//
// Comic archives are frequently mislabeled, so [Sniff] inspects magic
// bytes instead of trusting the file extension. [Extract] unpacks
// ZIP/CBZ archives; other archive families are reported as unsupported
// rather than silently skipped.
//
// # Decoding
//
// [DecodeGray] loads a page image as an 8-bit grayscale buffer, the
// only pixel format the refinement stages consume. PNG, JPEG, GIF,
// WebP, BMP, and TIFF pages are supported.
package pages
