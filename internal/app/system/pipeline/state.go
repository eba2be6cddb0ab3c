package pipeline

import (
	"time"

	"github.com/dalemusser/photoshare/internal/app/system/photoedit"
	"github.com/dalemusser/photoshare/internal/domain/models"
)

// State is a stage of the capture flow.
type State string

const (
	Idle                State = "idle"
	PermissionRequested State = "permission_requested"
	CameraBound         State = "camera_bound"
	Capturing           State = "capturing"
	Captured            State = "captured"
	Previewing          State = "previewing"
	Publishing          State = "publishing"
	Published           State = "published"
	Failed              State = "failed"
	Closed              State = "closed"
)

// Transition is reported to observers on every state change.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
	// URI is set on the move to Captured.
	URI string `json:"uri,omitempty"`
	// PostID is set on the move to Published.
	PostID string `json:"post_id,omitempty"`
	// Err is set on the move to Failed.
	Err error `json:"-"`
}

// Observer receives transitions in order. It runs on the goroutine that
// caused the change and must not block.
type Observer func(Transition)

// Draft is the post being prepared in preview.
type Draft struct {
	URI       string              `json:"uri"`
	Content   string              `json:"content"`
	Target    models.Target       `json:"target"`
	Transform photoedit.Transform `json:"transform"`
}
