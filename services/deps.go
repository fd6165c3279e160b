package services

import (
	"context"
	"errors"
	"time"
)

// CertificateData is what the external renderer receives
type CertificateData struct {
	StudentName      string    `json:"student_name"`
	CourseTitle      string    `json:"course_title"`
	InstructorName   string    `json:"instructor_name"`
	VerificationCode string    `json:"verification_code"`
	CompletedAt      time.Time `json:"completed_at"`
	IssuedAt         time.Time `json:"issued_at"`
}

// CertificateRenderer renders certificate data into a PDF buffer
type CertificateRenderer interface {
	Render(ctx context.Context, data CertificateData) ([]byte, error)
}

// StoredFile is the result of persisting a blob
type StoredFile struct {
	URL      string `json:"url"`
	Provider string `json:"provider"`
}

// BlobStore persists a byte buffer and returns a retrieval URL
type BlobStore interface {
	Store(ctx context.Context, data []byte, name, mimeType, folder string) (StoredFile, error)
}

// Notifier delivers a notification to a user, fire-and-forget
type Notifier interface {
	Notify(userID uint, kind, title, body, link string)
}

// External collaborators, wired in main and swapped for fakes in tests.
// Defaults fail closed: issuance surfaces a dependency failure until a real
// renderer and store are configured, and notifications are dropped.
var (
	Renderer       CertificateRenderer = unconfiguredRenderer{}
	Storage        BlobStore           = unconfiguredStore{}
	ActiveNotifier Notifier            = silentNotifier{}

	// RenderTimeout bounds the renderer and storage calls inside certificate
	// issuance so student-facing requests stay fast when rendering is slow.
	RenderTimeout = 15 * time.Second
)

type unconfiguredRenderer struct{}

func (unconfiguredRenderer) Render(context.Context, CertificateData) ([]byte, error) {
	return nil, errors.New("certificate renderer not configured")
}

type unconfiguredStore struct{}

func (unconfiguredStore) Store(context.Context, []byte, string, string, string) (StoredFile, error) {
	return StoredFile{}, errors.New("blob storage not configured")
}

type silentNotifier struct{}

func (silentNotifier) Notify(uint, string, string, string, string) {}

func sendNotification(userID uint, kind, title, body, link string) {
	ActiveNotifier.Notify(userID, kind, title, body, link)
}
