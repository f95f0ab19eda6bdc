package model

// Format is one selectable audio/video stream variant
type Format struct {
	FormatID       string
	Ext            string
	HasVideo       bool
	HasAudio       bool
	Height         int     // pixels, 0 if unknown
	AudioBitrate   float64 // kbps, 0 if unknown
	FileSize       int64   // declared size in bytes, 0 if unknown
	FileSizeApprox int64   // estimated size in bytes, 0 if unknown
}

// SizeBytes returns declared size, else estimated size, else 0
func (f Format) SizeBytes() int64 {
	if f.FileSize > 0 {
		return f.FileSize
	}
	if f.FileSizeApprox > 0 {
		return f.FileSizeApprox
	}
	return 0
}

// IsMedia reports whether the format carries any video or audio track
func (f Format) IsMedia() bool {
	return f.HasVideo || f.HasAudio
}
