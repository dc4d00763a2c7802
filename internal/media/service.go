package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const thumbWidth = 320

// Uploader is the storage surface the service needs. Satisfied by S3Store.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Upload describes one stored attachment.
type Upload struct {
	Key          string `json:"key"`
	URL          string `json:"url,omitempty"`
	ThumbnailKey string `json:"thumbnail_key,omitempty"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
}

// Service stores message attachments and avatars. Images additionally get
// a jpeg thumbnail next to the original.
type Service struct {
	store      Uploader
	presignTTL time.Duration
	log        *zap.SugaredLogger
}

func NewService(store Uploader, presignTTL time.Duration, log *zap.SugaredLogger) *Service {
	return &Service{store: store, presignTTL: presignTTL, log: log}
}

func (s *Service) UploadFile(ctx context.Context, userID, filename, contentType string, data []byte) (*Upload, error) {
	key := userID + "/" + uuid.NewString() + "_" + filename
	u, err := s.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", filename, err)
	}

	up := &Upload{Key: key, URL: u, ContentType: contentType, Size: int64(len(data))}
	if strings.HasPrefix(contentType, "image/") {
		thumbKey := key + "_thumb.jpg"
		thumb, err := makeThumbnail(data)
		if err != nil {
			s.log.Warnw("thumbnail generation failed", "key", key, "err", err)
			return up, nil
		}
		if _, err := s.store.Upload(ctx, thumbKey, "image/jpeg", thumb); err != nil {
			s.log.Warnw("thumbnail upload failed", "key", thumbKey, "err", err)
			return up, nil
		}
		up.ThumbnailKey = thumbKey
	}
	return up, nil
}

// DownloadURL resolves a stored key to a fetchable URL.
func (s *Service) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.store.PresignURL(ctx, key, s.presignTTL)
}

func makeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
