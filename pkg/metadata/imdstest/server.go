// Package imdstest provides a fake EC2 instance metadata service for tests
// and local development.
package imdstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
)

const (
	TokenPath    = "/latest/api/token"
	IdentityPath = "/latest/dynamic/instance-identity/document"

	tokenHeader    = "X-Aws-Ec2-Metadata-Token"
	tokenTTLHeader = "X-Aws-Ec2-Metadata-Token-Ttl-Seconds"
	testToken      = "imdstest-token"
)

// Document is the identity document served by the fake.
type Document struct {
	Region           string `json:"region,omitempty"`
	AvailabilityZone string `json:"availabilityZone,omitempty"`
	InstanceID       string `json:"instanceId,omitempty"`
	InstanceType     string `json:"instanceType,omitempty"`
	AccountID        string `json:"accountId,omitempty"`
	ImageID          string `json:"imageId,omitempty"`
}

// DefaultDocument returns a plausible identity document.
func DefaultDocument() Document {
	return Document{
		Region:           "us-east-1",
		AvailabilityZone: "us-east-1a",
		InstanceID:       "i-0123456789abcdef0",
		InstanceType:     "t3.micro",
		AccountID:        "123456789012",
		ImageID:          "ami-0abcdef1234567890",
	}
}

// Server is a fake IMDSv2 endpoint.
type Server struct {
	*httptest.Server

	doc      Document
	status   atomic.Int32
	hang     atomic.Bool
	requests atomic.Int32
}

// NewServer starts a fake serving doc.
func NewServer(doc Document) *Server {
	s := &Server{doc: doc}
	s.status.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT "+TokenPath, s.handleToken)
	mux.HandleFunc("GET "+IdentityPath, s.handleIdentity)
	s.Server = httptest.NewServer(mux)

	return s
}

// SetStatus makes the identity endpoint answer with status instead of the document.
func (s *Server) SetStatus(status int) {
	s.status.Store(int32(status))
}

// SetHang makes every request block until the client gives up.
func (s *Server) SetHang(hang bool) {
	s.hang.Store(hang)
}

// IdentityRequests returns how many identity document requests were served.
func (s *Server) IdentityRequests() int {
	return int(s.requests.Load())
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.hang.Load() {
		<-r.Context().Done()
		return
	}

	ttl := r.Header.Get(tokenTTLHeader)
	if ttl == "" {
		http.Error(w, "missing token ttl", http.StatusBadRequest)
		return
	}

	w.Header().Set(tokenTTLHeader, ttl)
	_, _ = w.Write([]byte(testToken))
}

func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	if s.hang.Load() {
		<-r.Context().Done()
		return
	}

	if r.Header.Get(tokenHeader) != testToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if status := int(s.status.Load()); status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	_ = json.NewEncoder(w).Encode(s.doc)
}
