// Package formsource loads form documents, the JSON description of a page's
// controls that the detection pipeline consumes. Documents come from files,
// fs.FS entries, or HTTP endpoints, and can also be derived from an OpenAPI
// operation's request schema for development fixtures. Option-bearing fields
// carry in-memory select controls so date groups resolved against a document
// can be filled and inspected without a live page.
package formsource
