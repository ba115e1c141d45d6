package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Export stores metadata about a session export written to object storage.
// The document itself lives in the bucket under ObjectKey.
type Export struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ObjectKey   string             `bson:"objectKey" json:"-"` // Bucket key, internal use
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	Sessions    int                `bson:"sessions" json:"sessions"` // Number of sessions in the document
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
