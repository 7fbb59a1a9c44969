package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"mime/multipart"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/repository"
)

const maxImageSize = 10 << 20 // 10MB

// StorageService puts post images on Cloudflare R2 and tracks them as media
// assets so the cleanup job can find orphans later.
type StorageService struct {
	config config.Config
	ma     repository.MediaAssetRepository
}

func NewStorageService(cfg config.Config, ma repository.MediaAssetRepository) *StorageService {
	return &StorageService{config: cfg, ma: ma}
}

func (s *StorageService) client() *s3.Client {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.config.R2.AccessKey, s.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		log.Fatal(err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.config.R2.AccountID))
	})
}

// UploadImage validates and stores one post image, returning its public URL.
func (s *StorageService) UploadImage(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error) {
	if file.Size > maxImageSize {
		return "", fmt.Errorf("file is too large, max %d bytes", maxImageSize)
	}

	fileContent, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return "", fmt.Errorf("error reading file content: %w", err)
	}

	allowedTypes := map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return "", fmt.Errorf("unsupported file type: %w", err)
	}
	if _, ok := allowedTypes[fileType.Extension]; !ok {
		return "", fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s.%s", id, fileType.Extension)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(fileType.MIME.Value),
	}
	if _, err := s.client().PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	asset := &models.MediaAsset{
		UserID:   userID,
		FileName: key,
		FileType: fileType.MIME.Value,
		FileSize: file.Size,
		FileURL:  s.PublicURL(key),
	}
	if _, err := s.ma.Create(ctx, asset); err != nil {
		return "", err
	}

	return asset.FileURL, nil
}

func (s *StorageService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s/%s", s.config.R2.AccountID, s.config.R2.BucketName, key)
}

// DeleteObject removes a stored object, used by the orphan cleanup job.
func (s *StorageService) DeleteObject(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.R2.BucketName),
		Key:    aws.String(key),
	}
	if _, err := s.client().DeleteObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
