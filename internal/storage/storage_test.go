// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/journal-import/pkg/types"
)

func TestLocalPut(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root)

	err := l.Put(context.Background(), "journals/1/articles/2/a.pdf", strings.NewReader("pdf bytes"), 9)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "journals", "1", "articles", "2", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))

	leftovers, err := filepath.Glob(filepath.Join(root, "journals", "1", "articles", "2", ".put-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestLocalPut_SizeMismatch(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root)

	err := l.Put(context.Background(), "a.pdf", strings.NewReader("short"), 100)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(root, "a.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalPath_RejectsEscapes(t *testing.T) {
	l := NewLocal(t.TempDir())
	for _, key := range []string{"../outside.pdf", "a/../../b.pdf", "", "/"} {
		_, err := l.Path(key)
		assert.Error(t, err, "key %q", key)
	}
	p, err := l.Path("/journals/1/x.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(l.Root(), "journals", "1", "x.pdf"), p)
}

func TestLocalPut_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLocal(t.TempDir()).Put(ctx, "a.pdf", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Put(t *testing.T) {
	fp := &fakePutter{}
	s := &S3{client: fp, bucket: "archive"}

	require.NoError(t, s.Put(context.Background(), "/journals/1/a.pdf", strings.NewReader("abc"), 3))
	assert.Equal(t, "archive", aws.ToString(fp.in.Bucket))
	assert.Equal(t, "journals/1/a.pdf", aws.ToString(fp.in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fp.in.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(fp.in.ContentLength))
	assert.Equal(t, "abc", fp.body)
	assert.Equal(t, "s3", s.Name())
}

func TestS3Put_Error(t *testing.T) {
	s := &S3{client: &fakePutter{err: errors.New("access denied")}, bucket: "archive"}
	err := s.Put(context.Background(), "a.pdf", strings.NewReader("abc"), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://archive/a.pdf")
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), types.S3Config{})
	require.Error(t, err)
}
