package fyne

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTitle(t *testing.T) {
	assert.Equal(t, "Alien 8 | saved shots/1.png", statusTitle("Alien 8", "saved shots/1.png", nil))
	assert.Equal(t,
		"Alien 8 | copy to clipboard failed: clipboard unavailable",
		statusTitle("Alien 8", "copy to clipboard", errors.New("clipboard unavailable")),
	)
}
