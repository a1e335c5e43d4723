// Package render draws payload text as a QR code PNG.
//
// The QR matrix comes from skip2/go-qrcode. Optional top and bottom captions
// (for example the RUB sum and the payee name) are drawn in white bands with
// the fixed 7x13 bitmap face, so no font files are needed at runtime.
//
// Renderer is the contract the converter depends on; tests substitute their
// own implementation to control timing and failures.
package render
