// Package models contains data types and constants for fitbot.
package models

// Answer service endpoints, relative to the configured base URL
const (
	DefaultBaseURL = "http://localhost:8000"
	ChatPath       = "/chat"
	HealthPath     = "/health"
)

// FallbackAnswer replaces the assistant reply whenever an exchange fails.
const FallbackAnswer = "Maaf, terjadi kesalahan. Silakan coba lagi dalam beberapa saat."

// WelcomeMessage is the greeting shown as the first assistant entry in chat.
const WelcomeMessage = "Halo! Saya FitBot, asisten fitness pribadi Anda! 💪 Siap untuk memulai perjalanan fitness yang luar biasa? Tanyakan apa saja tentang workout, nutrisi, atau tips kesehatan!"

// DefaultHeaders returns the headers sent with every answer service request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
