package service

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/storage"
	"github.com/goaltracker/api/internal/validation"
	"github.com/google/uuid"
)

type FileService struct {
	storage storage.Storage
}

func NewFileService(storage storage.Storage) *FileService {
	return &FileService{storage: storage}
}

// UploadPicture validates an image upload and stores it under the owning goal.
func (s *FileService) UploadPicture(ctx context.Context, ownerID string, file multipart.File, header *multipart.FileHeader) (*model.StoredFile, error) {
	err := validation.ValidateFile("picture", header, validation.PictureConstraints)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	storagePath := path.Join("public", model.FileTypeGoalPicture+"s", ownerID, filename)

	// Both the extension and the sniffed type were validated above.
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	err = s.storage.Save(ctx, storagePath, file, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &model.StoredFile{
		Type:         model.FileTypeGoalPicture,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  storagePath,
		URL:          s.storage.URL(ctx, storagePath),
	}, nil
}

func (s *FileService) Delete(ctx context.Context, storagePath string) error {
	return s.storage.Delete(ctx, storagePath)
}
