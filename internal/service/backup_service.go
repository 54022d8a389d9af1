// Package service provides business logic services for Zettel.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/prn-tf/zettel-notes/internal/config"
	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/repository"
)

// BackupService exports a user's notes as a JSON document to an
// S3-compatible bucket. Used by the admin CLI.
type BackupService struct {
	noteRepo repository.NoteRepository
	client   *s3.Client
	bucket   string
	enabled  bool
	logger   zerolog.Logger
}

// NewBackupService creates a new BackupService.
// When cfg.Enabled is false the service is constructed but every export
// fails with ErrBackupDisabled; no AWS client is created.
func NewBackupService(ctx context.Context, cfg config.BackupConfig, noteRepo repository.NoteRepository, logger zerolog.Logger) (*BackupService, error) {
	svc := &BackupService{
		noteRepo: noteRepo,
		bucket:   cfg.Bucket,
		enabled:  cfg.Enabled,
		logger:   logger.With().Str("service", "backup").Logger(),
	}

	if !cfg.Enabled {
		return svc, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return svc, nil
}

// exportDocument is the on-bucket shape of a notes export.
type exportDocument struct {
	Author     string         `json:"author"`
	ExportedAt time.Time      `json:"exported_at"`
	Notes      []*domain.Note `json:"notes"`
}

// ExportOutput contains the result of an export.
type ExportOutput struct {
	Key   string
	Count int
}

// Export uploads all notes owned by author to the configured bucket.
// The object key is author/<timestamp>.json.
func (s *BackupService) Export(ctx context.Context, author string) (*ExportOutput, error) {
	if !s.enabled {
		return nil, ErrBackupDisabled
	}

	notes, err := s.noteRepo.ListByAuthor(ctx, author)
	if err != nil {
		s.logger.Error().Err(err).Str("author", author).Msg("failed to list notes for export")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	doc := exportDocument{
		Author:     author,
		ExportedAt: time.Now().UTC(),
		Notes:      notes,
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal export: %v", ErrInternalError, err)
	}

	key := fmt.Sprintf("%s/%s.json", author, doc.ExportedAt.Format("20060102T150405Z"))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author", author).Str("key", key).Msg("failed to upload export")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("author", author).
		Str("key", key).
		Int("count", len(notes)).
		Msg("notes exported")

	return &ExportOutput{Key: key, Count: len(notes)}, nil
}
