package util

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageBytes caps avatar and post image uploads
const MaxImageBytes = 5 << 20

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ReadImageUpload reads an uploaded image into memory after checking its size,
// extension and sniffed content type. It returns the bytes, the canonical
// extension and the content type.
func ReadImageUpload(file *multipart.FileHeader) ([]byte, string, string, error) {
	if file.Size > MaxImageBytes {
		return nil, "", "", fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	want, ok := imageTypes[ext]
	if !ok {
		return nil, "", "", fmt.Errorf("unsupported image type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxImageBytes+1))
	if err != nil {
		return nil, "", "", err
	}
	if len(data) > MaxImageBytes {
		return nil, "", "", fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}

	// webp sniffing reports application/octet-stream on older runtimes, so
	// check its RIFF header directly
	got := http.DetectContentType(data)
	if want == "image/webp" {
		if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
			return nil, "", "", fmt.Errorf("file content is not %s", want)
		}
	} else if got != want {
		return nil, "", "", fmt.Errorf("file content is %s, expected %s", got, want)
	}
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return data, ext, want, nil
}
