package events

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// putObjectAPI is the part of *s3.Client the archiver uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Settings locates the archive bucket. An empty BaseEndpoint means AWS
// itself; otherwise an S3-compatible store such as MinIO.
type S3Settings struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Archiver stores the final outcome of every ended auction as one JSON
// object under results/<auction>.json. Bid events are not archived.
type S3Archiver struct {
	client putObjectAPI
	bucket string
}

func NewS3Archiver(client putObjectAPI, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// NewS3Client builds an S3 client from settings with static credentials.
func NewS3Client(ctx context.Context, st S3Settings) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(st.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKey,
			st.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if st.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(st.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func ResultKey(auctionID string) string {
	return fmt.Sprintf("results/%s.json", auctionID)
}

func (a *S3Archiver) PublishBidPlaced(context.Context, BidPlaced) error { return nil }

func (a *S3Archiver) PublishAuctionEnded(ctx context.Context, e AuctionEnded) error {
	body, err := encode(TypeAuctionEnded, e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ResultKey(e.AuctionID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive auction result: %w", err)
	}
	return nil
}
