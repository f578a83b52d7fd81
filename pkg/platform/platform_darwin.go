//go:build darwin

// Package platform wraps the few window-manager calls fyne does not expose.
package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

void useAccessoryPolicy() {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}

int isFrontmost() {
    return [NSApp isActive] ? 1 : 0;
}

void bringToFront() {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// KeepOutOfDock lets the app live in the menu bar once the dashboard is closed
func KeepOutOfDock() {
	C.useAccessoryPolicy()
}

// IsFrontmost reports whether the app owns keyboard focus
func IsFrontmost() bool {
	return C.isFrontmost() == 1
}

// BringToFront activates the app so a reminder is seen even from another app
func BringToFront() {
	C.bringToFront()
}
