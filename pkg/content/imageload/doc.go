// Package imageload provides [content.ImageLoader] implementations.
//
// Only the image header is decoded; the loaders report the intrinsic width
// and height needed to size an item before its pixels arrive.
//
//   - [HTTPLoader] fetches http(s) sources, retries transient failures and
//     caches decoded sizes in a [cache.Cache].
//   - [FileLoader] reads local paths and file:// URLs.
//   - [Mux] picks one of the two by scheme.
//
// JPEG, PNG, GIF, BMP and WebP headers are recognised.
package imageload

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)
