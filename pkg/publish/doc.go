// Package publish exports rendered pages to a directory and uploads
// static sites to S3.
//
// Export writes each page's HTML under the output directory, mapping
// "/" to index.html and "/about" to about/index.html. Publisher then
// walks a directory and puts every file into an S3 bucket with
// content types inferred from file extensions.
package publish
