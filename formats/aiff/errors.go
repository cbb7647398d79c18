package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the file is not a valid AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth indicates a PCM bit depth outside 8/16/24/32
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")

	// ErrUnsupportedAiffLayout indicates an unsupported AIFF layout
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
