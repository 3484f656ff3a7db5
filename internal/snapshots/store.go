// Package snapshots persists run artifacts (pipeline state, conversation
// metadata, enriched output) as JSON objects in blob storage, so the API
// server can serve the latest run without recomputing it.
package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/apperr"
	"pipeline_portal_backend/platform/config"
)

// Object keys within the snapshot bucket. Each run overwrites in place;
// readers always see the latest run.
const (
	KeyPipeline      = "pipeline.json"
	KeyConversations = "conversations.json"
	KeyEnriched      = "enriched.json"
	KeyDashboard     = "dashboard-data.json"
)

// Store is a MinIO-backed JSON object store.
type Store struct {
	client *minio.Client
	bucket string
}

// New creates the snapshot store and ensures its bucket exists.
func New(ctx context.Context, cfg config.BlobConfig) (*Store, error) {
	if !cfg.IsBlobEnabled() {
		return nil, fmt.Errorf("blob storage is not configured")
	}

	client, err := minio.New(cfg.GetBlobEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetBlobAccessKey(), cfg.GetBlobSecretKey(), ""),
		Secure: cfg.GetBlobUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	s := &Store{client: client, bucket: cfg.GetBlobBucket()}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// PutJSON marshals v and writes it under key, replacing any previous object.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, fmt.Sprintf("write snapshot %s", key), err)
	}
	return nil
}

// GetJSON reads the object under key into out. A missing object maps to
// KindNotFound so callers can distinguish "no run yet" from storage outages.
func (s *Store) GetJSON(ctx context.Context, key string, out any) error {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, fmt.Sprintf("read snapshot %s", key), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return apperr.NotFound(fmt.Sprintf("snapshot %s not found", key))
		}
		return apperr.Wrap(apperr.KindUnavailable, fmt.Sprintf("read snapshot %s", key), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SavePipeline stores the pipeline collector's output.
func (s *Store) SavePipeline(ctx context.Context, snap *domain.PipelineSnapshot) error {
	return s.PutJSON(ctx, KeyPipeline, snap)
}

// LoadPipeline reads the latest pipeline snapshot.
func (s *Store) LoadPipeline(ctx context.Context) (*domain.PipelineSnapshot, error) {
	var snap domain.PipelineSnapshot
	if err := s.GetJSON(ctx, KeyPipeline, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveConversations stores the conversation collector's output.
func (s *Store) SaveConversations(ctx context.Context, snap domain.ConversationSnapshot) error {
	return s.PutJSON(ctx, KeyConversations, snap)
}

// LoadConversations reads the latest conversation snapshot.
func (s *Store) LoadConversations(ctx context.Context) (domain.ConversationSnapshot, error) {
	var snap domain.ConversationSnapshot
	if err := s.GetJSON(ctx, KeyConversations, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveOutput stores the enriched engine output.
func (s *Store) SaveOutput(ctx context.Context, out *domain.Output) error {
	return s.PutJSON(ctx, KeyEnriched, out)
}

// LoadOutput reads the latest enriched engine output.
func (s *Store) LoadOutput(ctx context.Context) (*domain.Output, error) {
	var out domain.Output
	if err := s.GetJSON(ctx, KeyEnriched, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
