// Package fixtures holds binary inputs shared by the integration tests.
package fixtures

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

// RedJPEG returns a solid red JPEG of the given size
func RedJPEG(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SpokenQuestion stands in for a recorded mp3 question
var SpokenQuestion = []byte("ID3\x03\x00\x00\x00\x00\x00\x00fake-mp3-frames")
