// Package form implements the item creation form: a per-user, server-held
// draft that streams an image to object storage, collects title, category
// and color, and saves the result as a catalog item.
//
// Every terminal outcome of UploadImage, DeleteImage and SaveDetails is
// reported twice: as the returned error and as the form's alert slot, which
// hides itself after the configured delay. A failed operation always leaves
// the form idle.
package form
