// Package remote stores archives and split chunks in S3-compatible storage
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kjk/qvtools/atomicfile"
	"github.com/kjk/qvtools/u"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// compressedExt is added to names of archives uploaded with Config.Compress
const compressedExt = ".br"

type Config struct {
	Access   string
	Secret   string
	Bucket   string
	Endpoint string
	Region   string
	// use http instead of https e.g. for local minio
	Insecure bool
	// Prefix is prepended to all remote paths
	Prefix string
	// Compress archives with brotli before uploading
	Compress bool

	RequestTrace io.Writer
}

// Validate returns an error if a required field is missing
func (c *Config) Validate() error {
	var missing []string
	if c.Access == "" {
		missing = append(missing, "access")
	}
	if c.Secret == "" {
		missing = append(missing, "secret")
	}
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if len(missing) > 0 {
		return fmt.Errorf("remote config is missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

type Client struct {
	Client *minio.Client
	config *Config
	Bucket string
}

// New creates a client and checks that the bucket exists
func New(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("must provide config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := config
	mc, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Access, c.Secret, ""),
		Region: c.Region,
		Secure: !c.Insecure,
	})
	if err != nil {
		return nil, err
	}
	if c.RequestTrace != nil {
		mc.TraceOn(c.RequestTrace)
	}
	found, err := mc.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("bucket '%s' doesn't exist", c.Bucket)
	}
	return &Client{
		Client: mc,
		config: config,
		Bucket: c.Bucket,
	}, nil
}

// RemotePath joins Config.Prefix and parts into a bucket key
func RemotePath(prefix string, parts ...string) string {
	p := path.Join(append([]string{prefix}, parts...)...)
	return strings.TrimPrefix(p, "/")
}

// RemoteName returns name under which a local archive is stored
func RemoteName(localPath string, compress bool) string {
	name := filepath.Base(localPath)
	if compress {
		name += compressedExt
	}
	return name
}

// LocalName is the reverse of RemoteName
func LocalName(remotePath string) string {
	return strings.TrimSuffix(path.Base(remotePath), compressedExt)
}

func contentType(remotePath string) string {
	if strings.HasSuffix(remotePath, compressedExt) {
		return "application/x-brotli"
	}
	return "text/plain; charset=utf-8"
}

func (c *Client) Exists(ctx context.Context, remotePath string) bool {
	_, err := c.Client.StatObject(ctx, c.Bucket, remotePath, minio.StatObjectOptions{})
	return err == nil
}

// UploadArchive uploads archive at localPath to remoteDir (relative to
// Config.Prefix), brotli compressed if Config.Compress is set.
// Returns the remote path.
func (c *Client) UploadArchive(ctx context.Context, remoteDir string, localPath string) (string, error) {
	remotePath := RemotePath(c.config.Prefix, remoteDir, RemoteName(localPath, c.config.Compress))
	opts := minio.PutObjectOptions{
		ContentType: contentType(remotePath),
	}
	if !c.config.Compress {
		_, err := c.Client.FPutObject(ctx, c.Bucket, remotePath, localPath, opts)
		return remotePath, err
	}

	// compress to a temp file so that the size is known up-front,
	// PutObject with unknown size buffers whole multipart parts in memory
	tmp, err := os.CreateTemp("", "qv-*"+compressedExt)
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	err = u.CompressFile(tmpPath, localPath)
	if err != nil {
		return "", err
	}
	_, err = c.Client.FPutObject(ctx, c.Bucket, remotePath, tmpPath, opts)
	return remotePath, err
}

// UploadArchives uploads archives e.g. chunks created by Split
func (c *Client) UploadArchives(ctx context.Context, remoteDir string, paths []string) ([]string, error) {
	var res []string
	for _, p := range paths {
		remotePath, err := c.UploadArchive(ctx, remoteDir, p)
		if err != nil {
			return res, fmt.Errorf("upload of '%s' as '%s' failed with '%w'", p, remotePath, err)
		}
		res = append(res, remotePath)
	}
	return res, nil
}

// DownloadArchive downloads remotePath (a full bucket key) to dstPath.
// .br files are decompressed. dstPath is only created if the whole
// download succeeded.
func (c *Client) DownloadArchive(ctx context.Context, remotePath string, dstPath string) error {
	obj, err := c.Client.GetObject(ctx, c.Bucket, remotePath, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	// ensure there's a dir for destination file
	err = os.MkdirAll(filepath.Dir(dstPath), 0755)
	if err != nil {
		return err
	}

	var r io.ReadCloser = obj
	if strings.HasSuffix(remotePath, compressedExt) {
		r, err = u.NewDecompressingReader(obj, compressedExt)
		if err != nil {
			return err
		}
		defer r.Close()
	}

	f, err := atomicfile.New(dstPath)
	if err != nil {
		return err
	}
	defer f.RemoveIfNotClosed()
	_, err = io.Copy(f, r)
	if err != nil {
		return err
	}
	return f.Close()
}

// ListArchives returns keys of all objects under prefix (relative
// to Config.Prefix), sorted by key
func (c *Client) ListArchives(ctx context.Context, prefix string) ([]string, error) {
	p := RemotePath(c.config.Prefix, prefix)
	// "run1/" must not match "run10/..."
	if strings.HasSuffix(prefix, "/") && p != "" {
		p += "/"
	}
	opts := minio.ListObjectsOptions{
		Prefix:    p,
		Recursive: true,
	}
	var res []string
	for oi := range c.Client.ListObjects(ctx, c.Bucket, opts) {
		if oi.Err != nil {
			return nil, oi.Err
		}
		res = append(res, oi.Key)
	}
	return res, nil
}
