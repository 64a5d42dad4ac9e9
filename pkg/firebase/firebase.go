package firebase

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and the storage bucket used for images
type App struct {
	FirebaseApp *firebase.App
	Bucket      *Bucket
}

// InitFirebase initializes the Firebase application and opens the named storage bucket
func InitFirebase(ctx context.Context, credentialsPath, bucketName string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if bucketName == "" {
		return nil, fmt.Errorf("firebase storage bucket not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	handle, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error opening storage bucket %s: %w", bucketName, err)
	}

	return &App{FirebaseApp: firebaseApp, Bucket: &Bucket{handle: handle}}, nil
}

// Bucket stores objects in a Firebase (Google Cloud) Storage bucket
type Bucket struct {
	handle *gcs.BucketHandle
}

// Upload writes r to path with the given content type
func (b *Bucket) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	w := b.handle.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

// Delete removes the object at path
func (b *Bucket) Delete(ctx context.Context, path string) error {
	if err := b.handle.Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// SignedURL returns a V4 signed GET URL for path valid for ttl
func (b *Bucket) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	url, err := b.handle.SignedURL(path, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", path, err)
	}
	return url, nil
}
