package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/weiwangfds/postlens/config"
)

// MinioProvider MinIO/S3兼容存储提供商实现
type MinioProvider struct {
	client     *minio.Client
	bucketName string
	config     config.BackupConfig
}

// NewMinioProvider 创建MinIO提供商实例
// 存储桶不存在时自动创建
func NewMinioProvider(cfg config.BackupConfig) (*MinioProvider, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check minio bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create minio bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioProvider{
		client:     client,
		bucketName: cfg.Bucket,
		config:     cfg,
	}, nil
}

// UploadFile 上传文件到MinIO
func (p *MinioProvider) UploadFile(objectKey string, reader io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := p.client.PutObject(context.Background(), p.bucketName, objectKey, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to minio: %w", err)
	}

	return nil
}

// DeleteFile 删除MinIO文件
func (p *MinioProvider) DeleteFile(objectKey string) error {
	err := p.client.RemoveObject(context.Background(), p.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file from minio: %w", err)
	}

	return nil
}

// FileExists 检查文件是否存在
func (p *MinioProvider) FileExists(objectKey string) (bool, error) {
	_, err := p.client.StatObject(context.Background(), p.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence in minio: %w", err)
	}

	return true, nil
}

// TestConnection 测试连接
func (p *MinioProvider) TestConnection() error {
	exists, err := p.client.BucketExists(context.Background(), p.bucketName)
	if err != nil {
		return fmt.Errorf("failed to test minio connection: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio bucket %s does not exist", p.bucketName)
	}

	return nil
}
