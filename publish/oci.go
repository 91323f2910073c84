package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"iobench/config"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
	"github.com/sirupsen/logrus"
)

// Options selects where results are published.
type Options struct {
	ConfigFile string        // OCI config file
	Profile    string        // Profile inside ConfigFile
	Namespace  string        // Fetched from the API when empty
	Bucket     string        // Destination bucket
	Prefix     string        // Prepended to every object name
	Host       string        // Overrides the SDK endpoint when set
	Timeout    time.Duration // Per-request HTTP timeout
	Retries    int           // Attempts per object on 429/503
}

type objectPutter interface {
	PutObject(ctx context.Context, request objectstorage.PutObjectRequest) (objectstorage.PutObjectResponse, error)
}

// Publisher uploads benchmark output files to OCI Object Storage.
type Publisher struct {
	client    objectPutter
	namespace string
	bucket    string
	prefix    string
	retries   int
	log       logrus.FieldLogger
}

// retryBackoff is the wait before retrying attempt n (0-based).
var retryBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt+1) * time.Second
}

// NewPublisher builds an Object Storage client from opts.
func NewPublisher(ctx context.Context, opts Options, log logrus.FieldLogger) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	provider, err := config.LoadOCIConfig(opts.ConfigFile, opts.Profile, log)
	if err != nil {
		return nil, err
	}
	client, err := objectstorage.NewObjectStorageClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %v", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	httpClient, err := newHTTPClient(opts.Timeout)
	if err != nil {
		return nil, err
	}
	client.HTTPClient = httpClient
	if opts.Host != "" {
		log.WithField("host", opts.Host).Info("using custom object storage host")
		client.Host = opts.Host
	}

	namespace := opts.Namespace
	if namespace == "" {
		resp, err := client.GetNamespace(ctx, objectstorage.GetNamespaceRequest{})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch namespace: %v", err)
		}
		namespace = *resp.Value
		log.WithField("namespace", namespace).Debug("fetched namespace")
	}
	return newPublisher(client, namespace, opts.Bucket, opts.Prefix, opts.Retries, log), nil
}

func newPublisher(client objectPutter, namespace, bucket, prefix string, retries int, log logrus.FieldLogger) *Publisher {
	if retries <= 0 {
		retries = 5
	}
	return &Publisher{
		client:    client,
		namespace: namespace,
		bucket:    bucket,
		prefix:    prefix,
		retries:   retries,
		log:       log,
	}
}

// PublishFile uploads the file at path as <prefix><basename> and returns
// the object name.
func (p *Publisher) PublishFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %v", path, err)
	}
	objectName := p.prefix + filepath.Base(path)
	request := objectstorage.PutObjectRequest{
		NamespaceName: common.String(p.namespace),
		BucketName:    common.String(p.bucket),
		ObjectName:    common.String(objectName),
		ContentLength: common.Int64(int64(len(data))),
	}
	if err := p.uploadWithRetry(ctx, request, data); err != nil {
		return "", err
	}
	p.log.WithFields(logrus.Fields{"bucket": p.bucket, "object": objectName}).Info("published")
	return objectName, nil
}

// uploadWithRetry retries on 503 (service unavailable) and 429 (too many
// requests); any other failure is returned at once.
func (p *Publisher) uploadWithRetry(ctx context.Context, request objectstorage.PutObjectRequest, data []byte) error {
	var err error
	for i := 0; i < p.retries; i++ {
		request.PutObjectBody = io.NopCloser(bytes.NewReader(data))
		if _, err = p.client.PutObject(ctx, request); err == nil {
			return nil
		}

		var serviceErr common.ServiceError
		if errors.As(err, &serviceErr) && (serviceErr.GetHTTPStatusCode() == 503 || serviceErr.GetHTTPStatusCode() == 429) {
			p.log.WithFields(logrus.Fields{
				"object":  *request.ObjectName,
				"attempt": i + 1,
				"status":  serviceErr.GetHTTPStatusCode(),
			}).Warn("upload throttled, retrying")
			select {
			case <-time.After(retryBackoff(i)):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return fmt.Errorf("failed to upload %s: %v", *request.ObjectName, err)
	}
	return fmt.Errorf("failed to upload %s after %d attempts: %v", *request.ObjectName, p.retries, err)
}
