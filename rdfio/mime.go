package rdfio

// mimeRdfExt maps a file extension to the mime type used to pick a parser,
// mirroring the teacher's mimeRdfExt/rdfExtensions tables but trimmed to the
// two formats this package's dependency set (gon3, gojsonld) actually
// parses: Turtle and JSON-LD. N3 and RDF/XML are dropped — neither gon3 nor
// gojsonld handles them, and SPEC_FULL.md does not call for them.
var mimeRdfExt = map[string]string{
	".ttl":    "text/turtle",
	".jsonld": "application/ld+json",
}

// MimeForExt returns the mime type associated with a file extension
// (including the leading dot), or "" if unrecognized.
func MimeForExt(ext string) string {
	return mimeRdfExt[ext]
}
