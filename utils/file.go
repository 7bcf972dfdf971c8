package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxAvatarSize caps avatar uploads at 2 MiB.
const MaxAvatarSize = 2 << 20

var avatarExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// AvatarKey builds the object key avatars/<slug>-<uuid><ext>. Unknown or
// missing extensions fall back to .png.
func AvatarKey(displayName, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !avatarExtensions[ext] {
		ext = ".png"
	}
	name := slug.Make(displayName)
	if name == "" {
		name = "player"
	}
	return fmt.Sprintf("avatars/%s-%s%s", name, uuid.NewString(), ext)
}

// ReadUpload reads a multipart file into memory and sniffs its content type.
func ReadUpload(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	if fileHeader.Size > MaxAvatarSize {
		return nil, "", fmt.Errorf("file too large: %d bytes", fileHeader.Size)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, io.LimitReader(file, MaxAvatarSize+1)); err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if buf.Len() > MaxAvatarSize {
		return nil, "", fmt.Errorf("file too large")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(buf.Bytes())
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("unsupported content type %q", contentType)
	}
	return buf.Bytes(), contentType, nil
}
