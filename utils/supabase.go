package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	storage "github.com/supabase-community/storage-go"
)

const storageBucket = "uploads"

func storageClient() *storage.Client {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	return storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)
}

func publicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", os.Getenv("SUPABASE_URL"), storageBucket, objectPath)
}

// UploadImageToSupabase uploads a subject image to Supabase Storage.
// Path: uploads/subjects/<fileID>.<ext>
func UploadImageToSupabase(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("subjects/%s%s", fileID, ext)

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile(storageBucket, objectPath, &buf, options); err != nil {
		return "", fmt.Errorf("supabase upload failed: %v: %w", err, ErrUpstream)
	}
	return publicURL(objectPath), nil
}

// UploadBytesToSupabase uploads raw bytes (e.g. synthesized MP3 audio).
// Path: uploads/audio/<filename>
func UploadBytesToSupabase(data []byte, filename string, contentType string) (string, error) {
	objectPath := fmt.Sprintf("audio/%s", filename)
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile(storageBucket, objectPath, bytes.NewBuffer(data), options); err != nil {
		return "", fmt.Errorf("supabase upload failed: %v: %w", err, ErrUpstream)
	}
	return publicURL(objectPath), nil
}
