// "Тупой" клиент объектного хранилища: только выгрузка артефактов прогона.

package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ilkoid/facet-ai/pkg/config"
	"github.com/ilkoid/facet-ai/pkg/utils"
)

// Uploader определяет интерфейс для выгрузки артефактов.
// Используется для мокания в тестах и внедрения зависимостей.
type Uploader interface {
	UploadArtifact(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

type Client struct {
	api    *minio.Client
	bucket string
	prefix string
}

// Проверка что Client реализует Uploader
var _ Uploader = (*Client)(nil)

// New создает клиент, используя наш конфиг
func New(cfg config.S3Config) (*Client, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		api:    minioClient,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// UploadArtifact выгружает один артефакт прогона (JSON разметка или
// обновлённая схема) под ключом {prefix}/{YYYY-MM-DD}/{name}.
//
// Возвращает итоговый ключ объекта.
func (c *Client) UploadArtifact(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := path.Join(c.prefix, time.Now().Format("2006-01-02"), name)

	_, err := c.api.PutObject(ctx, c.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	utils.Info("artifact uploaded", "bucket", c.bucket, "key", key, "size", len(data))
	return key, nil
}
