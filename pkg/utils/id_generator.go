package utils

import (
	"github.com/google/uuid"
)

// GenerateID generates a new UUID
func GenerateID() string {
	return uuid.New().String()
}

// GenerateConsentID generates a unique consent ID
func GenerateConsentID() string {
	return "CONSENT-" + uuid.New().String()
}

// GenerateProcessingLogID generates a unique processing log ID
func GenerateProcessingLogID() string {
	return "LOG-" + uuid.New().String()
}

// GenerateRequestID generates a unique data-subject request ID
func GenerateRequestID() string {
	return "DSR-" + uuid.New().String()
}

// GenerateSyncLogID generates a unique sync log ID
func GenerateSyncLogID() string {
	return "SYNC-" + uuid.New().String()
}
