// Package media turns browser-submitted profile pictures into durable URLs.
//
// Clients send images as base64 data URLs ("data:image/png;base64,...").
// This package decodes and validates the payload, then stores the bytes
// through an Uploader:
//
//   - S3Uploader: S3 or any S3-compatible store (MinIO) for production
//   - LocalUploader: plain directory on disk for development
//
// Either way the result is a public HTTPS URL; the raw image bytes never
// reach the database.
package media
