package control

import (
	"fmt"
	"os"

	"dev/bravebird/browser-launcher/pkg/models"
)

// Channel is the control file shared with the external producer.
// There is no locking: a command written between Read and Ack is lost.
type Channel struct {
	path string
}

// NewChannel returns a channel over the file at path
func NewChannel(path string) *Channel {
	return &Channel{path: path}
}

// Path returns the control file path
func (c *Channel) Path() string {
	return c.path
}

// Read returns the whole file content
func (c *Channel) Read() (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", fmt.Errorf("failed to read control file: %w", err)
	}
	return string(data), nil
}

// Ack replaces the file content with the acknowledgment text
func (c *Channel) Ack() error {
	if err := os.WriteFile(c.path, []byte(models.AckText), 0644); err != nil {
		return fmt.Errorf("failed to write acknowledgment: %w", err)
	}
	return nil
}
