// Package content turns caller descriptors into placeable items.
//
// A [Loader] builds one [Item] per [Descriptor]: it resolves the primary
// image through an [ImageLoader], falls back to a default image when the
// primary fails, attaches the caller's rendered markup and binds the click
// callback to the original descriptor. Loads for a batch run concurrently and
// the result keeps the input order. A failing image never fails the batch.
//
// Image loaders for HTTP and local files live in the imageload subpackage.
package content
