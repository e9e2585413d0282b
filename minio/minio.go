// Package minio keeps one picture per group room in an object store bucket
// that is publicly readable.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
)

const statConcurrency = 8

type RoomImages struct {
	client *minio.Client
	bucket string
	// publicURL is the base the bucket is served from, without a
	// trailing slash.
	publicURL string
}

func New(client *minio.Client, bucket, publicURL string) *RoomImages {
	return &RoomImages{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Images returns the public URL of the rooms that have a picture.
// URLs change whenever the picture does.
func (m *RoomImages) Images(ctx context.Context, roomIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(roomIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statConcurrency)
	for _, roomID := range roomIDs {
		g.Go(func() error {
			info, err := m.client.StatObject(gctx, m.bucket, objectName(roomID), minio.StatObjectOptions{})
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				return nil
			}

			if err != nil {
				return fmt.Errorf("stat room image %s: %w", roomID, err)
			}

			mu.Lock()
			out[roomID] = m.imageURL(roomID, info.ETag)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Upload replaces the picture of the room with a square JPEG thumbnail of
// the given image and returns its URL.
func (m *RoomImages) Upload(ctx context.Context, roomID string, r io.Reader) (string, error) {
	b, err := Thumbnail(r)
	if err != nil {
		return "", err
	}

	info, err := m.client.PutObject(ctx, m.bucket, objectName(roomID), bytes.NewReader(b), int64(len(b)), minio.PutObjectOptions{
		ContentType:  "image/jpeg",
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("put room image: %w", err)
	}

	return m.imageURL(roomID, info.ETag), nil
}

func (m *RoomImages) Delete(ctx context.Context, roomID string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName(roomID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove room image: %w", err)
	}
	return nil
}

// CreateReadOnlyBucket creates the bucket if missing and lets anyone read
// its objects.
func (m *RoomImages) CreateReadOnlyBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket exists: %w", err)
	}

	if !exists {
		err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}

	readOnlyPolicy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": "*",
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.bucket)

	if err := m.client.SetBucketPolicy(ctx, m.bucket, readOnlyPolicy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	return nil
}

func (m *RoomImages) imageURL(roomID, etag string) string {
	return m.publicURL + "/" + m.bucket + "/" + objectName(roomID) + "?v=" + url.QueryEscape(etag)
}

func objectName(roomID string) string {
	return "rooms/" + roomID + ".jpg"
}
