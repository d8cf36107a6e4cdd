// Package storage uploads generated images to Supabase Storage through its
// S3-compatible endpoint.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/errs"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Image is one file to upload.
type Image struct {
	Name     string
	Data     []byte
	MimeType string
}

// Uploaded describes a stored object.
type Uploaded struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type Store struct {
	api         objectAPI
	bucket      string
	supabaseURL string
	concurrency int
}

// New builds a Store from cfg. The endpoint and both keys are required.
func New(ctx context.Context, cfg config.Storage) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errs.NewEnvironmentVariableError("SUPABASE_S3_ENDPOINT")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errs.NewEnvironmentVariableError("SUPABASE_S3_ACCESS_KEY_ID")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, errs.NewConfigError("storage", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return newStore(client, cfg), nil
}

func newStore(api objectAPI, cfg config.Storage) *Store {
	return &Store{
		api:         api,
		bucket:      cfg.Bucket,
		supabaseURL: strings.TrimSuffix(cfg.SupabaseURL, "/"),
		concurrency: 4,
	}
}

func (s *Store) Bucket() string {
	return s.bucket
}

// PublicURL is the public object URL Supabase serves for key.
func (s *Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.supabaseURL, s.bucket, key)
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return errs.NewUpstreamError("storage", err)
	}

	log.Info().Str("bucket", s.bucket).Msg("Creating storage bucket")
	_, err = s.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return errs.NewUpstreamError("storage", err)
	}
	return nil
}

// UploadImage stores img under folder and returns its public URL. A missing
// name gets a random one.
func (s *Store) UploadImage(ctx context.Context, folder string, img Image) (Uploaded, error) {
	if len(img.Data) == 0 {
		return Uploaded{}, errs.NewBadRequestError("image has no data")
	}
	mime := img.MimeType
	if mime == "" {
		mime = "image/png"
	}
	name := img.Name
	if name == "" {
		name = uuid.NewString() + ExtensionFor(mime)
	}
	key := path.Join(folder, name)

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(img.Data),
		ContentType:  aws.String(mime),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload image")
		return Uploaded{}, errs.NewUpstreamError("storage", err)
	}

	log.Debug().Str("key", key).Int("bytes", len(img.Data)).Msg("Uploaded image")
	return Uploaded{Path: key, URL: s.PublicURL(key)}, nil
}

// UploadImages uploads imgs in parallel and returns them in input order.
func (s *Store) UploadImages(ctx context.Context, folder string, imgs []Image) ([]Uploaded, error) {
	out := make([]Uploaded, len(imgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, img := range imgs {
		g.Go(func() error {
			up, err := s.UploadImage(ctx, folder, img)
			if err != nil {
				return err
			}
			out[i] = up
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtensionFor returns the file extension for an image MIME type, ".png" when unknown.
func ExtensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
