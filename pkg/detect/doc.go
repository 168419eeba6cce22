// Package detect runs the full detection sequence over a form: fields are
// classified, matched against the profile, and clustered into date groups in
// one pass, with an optional asynchronous refinement step that can raise
// confidence later without ever downgrading what a pass already found.
package detect
