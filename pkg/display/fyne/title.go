package fyne

import "fmt"

// statusTitle is the window title shown after acting on the
// current frame, such as saving or copying it.
func statusTitle(title, action string, err error) string {
	if err != nil {
		return fmt.Sprintf("%s | %s failed: %s", title, action, err)
	}
	return fmt.Sprintf("%s | %s", title, action)
}
