package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const maxUploadSize = int64(5 * 1024 * 1024)

var reUnsafeName = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// PublicDir is the local root for stored artifacts. Paths returned by the
// save helpers are web paths relative to this root (e.g. "/practice/x.webp").
func PublicDir() string {
	if v := strings.TrimSpace(os.Getenv("PUBLIC_DIR")); v != "" {
		return v
	}
	return "public"
}

func sanitizeFilename(filename string) string {
	return reUnsafeName.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s-%s-%s", timestamp, uuid.NewString(), sanitizeFilename(originalFilename))
}

// SaveImageAsWebP re-encodes an uploaded image to webp (max width 1600px)
// and writes it under PublicDir()/folder. Returns the web path.
func SaveImageAsWebP(folder string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxUploadSize {
		return "", fmt.Errorf("image exceeds %d bytes", maxUploadSize)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > 1600 {
		img = imaging.Resize(img, 1600, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 82}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	base := strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))
	name := GenerateUniqueFilename(base) + ".webp"
	if err := writeLocal(folder, name, buf); err != nil {
		return "", err
	}
	return "/" + folder + "/" + name, nil
}

// SaveUploadedFile stores a raw uploaded part (no re-encode) and returns
// its web path. Used for arbitrary file fields on dynamic content.
func SaveUploadedFile(folder string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxUploadSize {
		return "", fmt.Errorf("file exceeds %d bytes", maxUploadSize)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, src); err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	name := GenerateUniqueFilename(fileHeader.Filename)
	if err := writeLocal(folder, name, buf); err != nil {
		return "", err
	}
	return "/" + folder + "/" + name, nil
}

// DeleteLocalFile removes a previously stored artifact by its web path.
// Missing files are not an error.
func DeleteLocalFile(webPath string) error {
	p := strings.TrimPrefix(webPath, "/")
	if p == "" || strings.Contains(p, "..") {
		return nil
	}
	full := filepath.Join(PublicDir(), filepath.FromSlash(p))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeLocal(folder, name string, buf *bytes.Buffer) error {
	dir := filepath.Join(PublicDir(), folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
