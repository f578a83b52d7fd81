//go:build !darwin

package platform

func KeepOutOfDock() {}

// IsFrontmost always reports true; other platforms raise the window themselves
func IsFrontmost() bool {
	return true
}

func BringToFront() {}
