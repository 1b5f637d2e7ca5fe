package library_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/vinyldeck/vinyldeck/pkg/library"
)

// fakeS3Client is a minimal in-memory storage.S3Client for exercising
// ResolveSource's download-and-cache path without a network call.
type fakeS3Client struct {
	objects map[string][]byte
	gets    int
}

func (f *fakeS3Client) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gets++
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &notFoundErr{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3Client) PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3Client) HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return &s3.HeadObjectOutput{}, nil
}

type notFoundErr struct{}

func (*notFoundErr) Error() string                  { return "no such key" }
func (*notFoundErr) ErrorCode() string              { return "NoSuchKey" }
func (*notFoundErr) ErrorMessage() string           { return "no such key" }
func (*notFoundErr) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestResolveSourceLocalSchemePassesThrough(t *testing.T) {
	localPath, cleanup, err := library.ResolveSource(context.Background(), nil, "local:/music/track.flac")
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	defer cleanup()
	if localPath != "/music/track.flac" {
		t.Fatalf("localPath = %q, want /music/track.flac", localPath)
	}
}

func TestResolveSourceBarePathPassesThrough(t *testing.T) {
	localPath, cleanup, err := library.ResolveSource(context.Background(), nil, "/music/track.flac")
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	defer cleanup()
	if localPath != "/music/track.flac" {
		t.Fatalf("localPath = %q, want /music/track.flac", localPath)
	}
}

func TestResolveSourceS3DownloadsOnceAndCaches(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	client := &fakeS3Client{objects: map[string][]byte{
		"daft-punk/one-more-time.wav": []byte("pretend-pcm-bytes"),
	}}
	ctx := context.Background()
	uri := "s3://tracks-bucket/daft-punk/one-more-time.wav"

	localPath, cleanup, err := library.ResolveSource(ctx, client, uri)
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	defer cleanup()

	got, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", localPath, err)
	}
	if string(got) != "pretend-pcm-bytes" {
		t.Fatalf("cached content = %q", got)
	}
	if client.gets != 1 {
		t.Fatalf("expected 1 GetObject call, got %d", client.gets)
	}

	// A second resolve of the same URI must hit the cache, not S3 again.
	localPath2, cleanup2, err := library.ResolveSource(ctx, client, uri)
	if err != nil {
		t.Fatalf("ResolveSource (cached): %v", err)
	}
	defer cleanup2()
	if localPath2 != localPath {
		t.Fatalf("cached path = %q, want %q", localPath2, localPath)
	}
	if client.gets != 1 {
		t.Fatalf("expected GetObject to stay at 1 after a cache hit, got %d", client.gets)
	}
}

func TestResolveSourceS3MissingKey(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	client := &fakeS3Client{objects: map[string][]byte{}}
	_, _, err := library.ResolveSource(context.Background(), client, "s3://tracks-bucket/missing.wav")
	if err == nil {
		t.Fatal("expected an error for a missing S3 key")
	}
}
