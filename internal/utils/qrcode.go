package utils

import (
    "encoding/base64"
    "fmt"

    "github.com/google/uuid"
    qrcode "github.com/skip2/go-qrcode"
)

// NewVerificationToken returns an opaque unique token authorizing
// physical check-in for a fully paid booking. Tokens are issued exactly
// once, at the moment a booking becomes CONFIRMED, and never rotate.
func NewVerificationToken() string {
    return uuid.NewString()
}

// BuildVerificationURL renders the check-in URL encoded into the QR
// code. baseURL is the public verify endpoint, e.g.
// "https://app.example.com/verify".
func BuildVerificationURL(baseURL, token string) string {
    return fmt.Sprintf("%s?token=%s", baseURL, token)
}

// RenderQRCode encodes data into a scannable PNG and returns it as a
// base64 data URI suitable for embedding directly in an <img> tag.
func RenderQRCode(data string) (string, error) {
    png, err := qrcode.Encode(data, qrcode.Medium, 256)
    if err != nil {
        return "", fmt.Errorf("encode qr: %w", err)
    }
    return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
