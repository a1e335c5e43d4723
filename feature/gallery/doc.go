// Package gallery saves rendered QR images to object storage.
//
// Saving is guarded by a single busy flag. While one upload runs, another
// Save returns ErrBusy immediately rather than queueing, and GET
// /gallery/status exposes the flag so a client can disable its button.
//
// Images are stored as {prefix}/{yyyy}/{mm}/{uuid}.png with content type
// image/png. The bucket is created on first save if it does not exist.
package gallery
