package media

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// extensions are the media file extensions accepted from uploads and the inbox.
var extensions = map[string]bool{
	".webm": true, ".mkv": true, ".mp4": true, ".mov": true, ".m4v": true,
	".ogg": true, ".opus": true, ".wav": true, ".m4a": true, ".mp3": true, ".flac": true,
}

// KnownExtension reports whether ext (with its leading dot, any case) is a media extension.
func KnownExtension(ext string) bool {
	return extensions[strings.ToLower(ext)]
}

// CopyFile copies src to dst byte for byte, truncating dst. A partial dst is removed on error.
func CopyFile(src, dst string) error {
	return copyFile(src, dst, os.O_TRUNC)
}

// MoveFile renames src to dst, copying across filesystems when rename is not possible.
// An existing dst is never overwritten by the copy path.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst, os.O_EXCL); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string, mode int) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|mode, 0644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}
