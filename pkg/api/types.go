package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bsonview/pkg/bson"
	"github.com/ssargent/bsonview/pkg/inspect"
	"github.com/ssargent/bsonview/pkg/spool"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Addr         string
	APIKey       string
	MaxBodyBytes int64 // request bodies above this are refused, DefaultMaxBodyBytes when zero
}

// DefaultMaxBodyBytes caps uploaded documents at 16 MiB
const DefaultMaxBodyBytes = 16 << 20

// DocumentSpool is the part of spool.Spool the handlers use
type DocumentSpool interface {
	Put(buf []byte) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) (bson.Document, error)
	List(limit int) ([]spool.Entry, error)
	Count() (int, error)
	Delete(id ksuid.KSUID) error
}

// DocumentResponse is returned for a single spooled document
type DocumentResponse struct {
	ID     string          `json:"id,omitempty"`
	Size   uint32          `json:"size"`
	Fields []inspect.Field `json:"fields,omitempty"`
}
