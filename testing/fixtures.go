package testing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"strconv"
)

// ErrDBUnavailable marks a test database that could not be provisioned
var ErrDBUnavailable = errors.New("test database unavailable")

// PNGBytes returns a small valid PNG image
func PNGBytes() []byte {
	buf := &bytes.Buffer{}
	_ = png.Encode(buf, sampleImage())
	return buf.Bytes()
}

// JPEGBytes returns a small valid JPEG image
func JPEGBytes() []byte {
	buf := &bytes.Buffer{}
	_ = jpeg.Encode(buf, sampleImage(), &jpeg.Options{Quality: 80})
	return buf.Bytes()
}

// GIFBytes returns a small valid GIF image
func GIFBytes() []byte {
	buf := &bytes.Buffer{}
	_ = gif.Encode(buf, sampleImage(), nil)
	return buf.Bytes()
}

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	return img
}

// FormFile describes one file part of a multipart body
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// MultipartBody builds a multipart/form-data body and returns it with its Content-Type header value
func MultipartBody(fields map[string]string, files ...FormFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Filename+`"`)
		if f.ContentType != "" {
			header.Set("Content-Type", f.ContentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

// ChunkFields returns the form fields of a chunk request
func ChunkFields(index, total int, fileName, fileID string) map[string]string {
	return map[string]string{
		"chunkIndex":  strconv.Itoa(index),
		"totalChunks": strconv.Itoa(total),
		"fileName":    fileName,
		"fileId":      fileID,
	}
}
