package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/jgoulah/kcaltrack/internal/config"
	"github.com/jgoulah/kcaltrack/internal/entry"
	"github.com/jgoulah/kcaltrack/internal/recognizer"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// entryStore is the part of entry.Store the archiver needs
type entryStore interface {
	List() []models.FoodEntry
	Update(id string, patch models.EntryPatch) (entry.WriteOutcome, error)
}

// Archiver copies inline entry photos to S3 and points the entries at the copies
type Archiver struct {
	client s3Client
	bucket string
	prefix string
	logger *zap.Logger
}

// New builds an Archiver using the default AWS credential chain
func New(ctx context.Context, cfg config.ArchiveConfig, prefix string, logger *zap.Logger) (*Archiver, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("photo archive is not enabled in config")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required when enabled")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return newArchiver(s3.NewFromConfig(awsCfg), cfg.Bucket, prefix, logger), nil
}

func newArchiver(client s3Client, bucket, prefix string, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Result reports what a Run did
type Result struct {
	Archived int
	Skipped  int
	Failed   []error
}

// Run uploads every inline photo dated on or before `through` (all dates when
// empty) and rewrites the entry's imageUrl to the s3:// location.
func (a *Archiver) Run(ctx context.Context, store entryStore, through string) (Result, error) {
	var res Result

	for _, e := range store.List() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !strings.HasPrefix(e.ImageURL, "data:") || (through != "" && e.Date > through) {
			res.Skipped++
			continue
		}

		url, err := a.upload(ctx, e)
		if err != nil {
			a.logger.Warn("archiving photo failed", zap.String("id", e.ID), zap.Error(err))
			res.Failed = append(res.Failed, fmt.Errorf("entry %s: %w", e.ID, err))
			continue
		}

		outcome, err := store.Update(e.ID, models.EntryPatch{ImageURL: &url})
		if err != nil {
			res.Failed = append(res.Failed, fmt.Errorf("entry %s: updating image url: %w", e.ID, err))
			continue
		}
		a.logger.Debug("archived photo", zap.String("id", e.ID), zap.String("url", url), zap.Stringer("outcome", outcome))
		res.Archived++
	}

	return res, errors.Join(res.Failed...)
}

func (a *Archiver) upload(ctx context.Context, e models.FoodEntry) (string, error) {
	data, mime, err := recognizer.DecodeDataURI(e.ImageURL)
	if err != nil {
		return "", err
	}

	key := ObjectKey(a.prefix, e, mime)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mime),
	})
	if err != nil {
		return "", fmt.Errorf("uploading to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// ObjectKey names the S3 object for an entry's photo: <prefix><date>/<id>.<ext>
func ObjectKey(prefix string, e models.FoodEntry, mime string) string {
	return fmt.Sprintf("%s%s/%s.%s", prefix, e.Date, e.ID, extension(mime))
}

func extension(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "bin"
	}
}
