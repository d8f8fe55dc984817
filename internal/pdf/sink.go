package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
)

// Sink 保存生成好的 PDF，并返回其位置。
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileSink 将 PDF 写入本地目录。
type FileSink struct {
	Dir string
}

func (s FileSink) Save(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create print dir: %w", err)
	}
	target := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return target, nil
}

// uploader 是 ObjectSink 需要的对象存储能力，storage.Client 满足该接口。
type uploader interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
}

// ObjectSink 上传 PDF 到对象存储并返回限时下载链接。
type ObjectSink struct {
	client uploader
	prefix string
	ttl    time.Duration
}

// NewObjectSink 构造对象存储出口，对象名为 <prefix><name>。
func NewObjectSink(client uploader, prefix string, ttl time.Duration) *ObjectSink {
	return &ObjectSink{client: client, prefix: prefix, ttl: ttl}
}

func (s *ObjectSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	objectName := s.prefix + name
	if _, err := s.client.UploadFile(ctx, objectName, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return "", fmt.Errorf("upload pdf: %w", err)
	}
	link, err := s.client.GeneratePresignedURL(ctx, objectName, s.ttl)
	if err != nil {
		return "", fmt.Errorf("presign pdf: %w", err)
	}
	return link, nil
}
