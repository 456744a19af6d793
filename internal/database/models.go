package database

import (
	"time"

	"github.com/aashari/go-eduverse-backend/internal/agentflow"
)

// TraceDocument is the stored form of an agent flow trace
type TraceDocument struct {
	agentflow.Trace `bson:",inline"`
	Service         string    `json:"service" bson:"service"`
	Environment     string    `json:"environment" bson:"environment"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}
