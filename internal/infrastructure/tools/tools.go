// Package tools bundles small offline utilities that require no provider
// round-trip: password and UUID generation, base64 transcoding, and lookup
// tables for well-known ports and HTTP status codes.
package tools

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	passwordLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	passwordDigits  = "0123456789"
	passwordSymbols = "!@#$%^&*()-_=+[]{}"

	// MinPasswordLength guards against trivially brute-forceable output.
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// GeneratePassword returns a random password drawn from letters, digits, and
// punctuation using crypto/rand.
func GeneratePassword(length int, symbols bool) (string, error) {
	if length < MinPasswordLength || length > MaxPasswordLength {
		return "", fmt.Errorf("password length must be between %d and %d", MinPasswordLength, MaxPasswordLength)
	}
	alphabet := passwordLetters + passwordDigits
	if symbols {
		alphabet += passwordSymbols
	}

	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NewUUID returns a random version 4 UUID.
func NewUUID() string {
	return uuid.NewString()
}

// EncodeBase64 encodes text with standard padding.
func EncodeBase64(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeBase64 decodes standard base64, tolerating missing padding.
func DecodeBase64(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return "", fmt.Errorf("invalid base64 input: %w", err)
	}
	return string(raw), nil
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// RandomUserAgent picks one of a small pool of current browser user agents.
func RandomUserAgent() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(userAgents))))
	if err != nil {
		return "", err
	}
	return userAgents[n.Int64()], nil
}

var wellKnownPorts = map[int]string{
	20:    "FTP data transfer",
	21:    "FTP control",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	67:    "DHCP server",
	68:    "DHCP client",
	80:    "HTTP",
	110:   "POP3",
	123:   "NTP",
	143:   "IMAP",
	443:   "HTTPS",
	465:   "SMTPS",
	587:   "SMTP submission",
	993:   "IMAPS",
	995:   "POP3S",
	1433:  "Microsoft SQL Server",
	3306:  "MySQL",
	3389:  "RDP",
	5432:  "PostgreSQL",
	5672:  "AMQP",
	6379:  "Redis",
	8080:  "HTTP alternate",
	8443:  "HTTPS alternate",
	9092:  "Kafka",
	11211: "Memcached",
	27017: "MongoDB",
}

// LookupPort describes a well-known port, or reports it unknown.
func LookupPort(port int) (string, bool) {
	description, ok := wellKnownPorts[port]
	return description, ok
}

var httpStatuses = map[int]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	413: "Payload Too Large",
	418: "I'm a teapot",
	422: "Unprocessable Entity",
	429: "Too Many Requests",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

// LookupHTTPStatus describes an HTTP status code, or reports it unknown.
func LookupHTTPStatus(code int) (string, bool) {
	reason, ok := httpStatuses[code]
	return reason, ok
}
