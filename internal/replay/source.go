package replay

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-go/sortable/internal/errors"
)

// MaxScenarioSize bounds a scenario read from disk or object storage.
const MaxScenarioSize = 1 << 20

// ObjectGetter is the part of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads scenarios from files and from s3://bucket/key URIs.
type Loader struct {
	// S3 fetches s3:// scenarios. Nil means s3:// URIs are rejected.
	S3 ObjectGetter
}

// Load reads and parses the scenario at ref.
func (l *Loader) Load(ctx context.Context, ref string) (*Scenario, error) {
	var (
		src []byte
		err error
	)
	if bucket, key, ok := ParseS3URI(ref); ok {
		src, err = l.fetch(ctx, bucket, key)
	} else {
		src, err = readFile(ref)
	}
	if err != nil {
		return nil, errors.New(errors.CodeScenarioUnreachable).
			WithDetailf("cannot read %s", ref).
			Wrap(err)
	}
	return Parse(ref, src)
}

// LoadAll loads every ref, stopping at the first failure.
func (l *Loader) LoadAll(ctx context.Context, refs []string) ([]*Scenario, error) {
	out := make([]*Scenario, 0, len(refs))
	for _, ref := range refs {
		sc, err := l.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

func (l *Loader) fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if l.S3 == nil {
		return nil, fmt.Errorf("no S3 client configured")
	}
	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object failed: %w", err)
	}
	defer out.Body.Close()
	return readLimited(out.Body)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxScenarioSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxScenarioSize {
		return nil, fmt.Errorf("scenario exceeds %d bytes", MaxScenarioSize)
	}
	return data, nil
}

// ParseS3URI splits "s3://bucket/key" into its bucket and key.
func ParseS3URI(ref string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(ref, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// S3Config configures NewS3Client.
type S3Config struct {
	Region string

	// Endpoint overrides the S3 endpoint, e.g. a MinIO URL. Path-style
	// addressing is used when it is set.
	Endpoint string

	// AccessKeyID and SecretAccessKey sign requests. Without them requests
	// are anonymous.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// S3ConfigFromEnv reads the standard AWS_* variables.
func S3ConfigFromEnv() S3Config {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	return S3Config{
		Region:          region,
		Endpoint:        os.Getenv("AWS_ENDPOINT_URL_S3"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	}
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{Region: cfg.Region}
	if cfg.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			SessionToken:    cfg.SessionToken,
			Source:          "sortable",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}
