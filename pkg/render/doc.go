// Package render is the HTML renderer backend consumed by the composer.
//
// The composer stores whatever artifact a node emits and reuses it on
// the skip path; it does not know how markup is produced. This package
// provides that artifact: an element tree with variadic builders, an
// HTML serializer, and the accessibility contract for interactive
// trigger elements.
package render
