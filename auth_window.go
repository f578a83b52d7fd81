package main

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/careassist/care-reminder/pkg/api"
)

// AuthWindow hosts the login and registration forms
type AuthWindow struct {
	ca     *CareAssistant
	window fyne.Window
}

func NewAuthWindow(ca *CareAssistant) *AuthWindow {
	aw := &AuthWindow{ca: ca}
	aw.window = ca.app.NewWindow("Care Reminder - Sign In")
	aw.window.Resize(fyne.NewSize(420, 320))
	aw.window.SetCloseIntercept(func() {
		aw.window.Hide()
	})
	aw.showLogin()
	return aw
}

func (aw *AuthWindow) Show() {
	aw.window.Show()
	aw.window.RequestFocus()
}

func (aw *AuthWindow) Close() {
	aw.window.Close()
}

func (aw *AuthWindow) showLogin() {
	aw.window.SetTitle("Care Reminder - Sign In")

	username := widget.NewEntry()
	username.SetPlaceHolder("Username")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	var loginButton *widget.Button
	loginButton = widget.NewButton("Login", func() {
		user, pass := strings.TrimSpace(username.Text), password.Text
		loginButton.Disable()
		go func() {
			err := aw.login(user, pass)
			fyne.Do(func() {
				loginButton.Enable()
				if err != nil {
					dialog.ShowInformation("Login", api.UserMessage("Login failed", err, "Unknown error"), aw.window)
				}
			})
		}()
	})
	loginButton.Importance = widget.HighImportance
	password.OnSubmitted = func(string) { loginButton.OnTapped() }

	registerLink := widget.NewButton("Create an account", aw.showRegister)
	registerLink.Importance = widget.LowImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Accessible Healthcare Assistant", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		username,
		password,
		loginButton,
		registerLink,
	)
	aw.window.SetContent(container.NewPadded(form))
	aw.window.Canvas().Focus(username)
}

func (aw *AuthWindow) login(username, password string) error {
	ctx, cancel := context.WithTimeout(context.Background(), aw.ca.cfg.API.Timeout)
	defer cancel()

	token, err := aw.ca.client.Login(ctx, username, password)
	if err != nil {
		aw.ca.logger.Warn("login failed", "username", username, "error", err)
		return err
	}

	aw.ca.session.Save(token)
	aw.ca.logger.Info("logged in", "username", username)
	fyne.Do(aw.ca.showDashboard)
	return nil
}

func (aw *AuthWindow) showRegister() {
	aw.window.SetTitle("Care Reminder - Register")

	username := widget.NewEntry()
	username.SetPlaceHolder("Username")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	var registerButton *widget.Button
	registerButton = widget.NewButton("Register", func() {
		user, pass := strings.TrimSpace(username.Text), password.Text
		registerButton.Disable()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), aw.ca.cfg.API.Timeout)
			defer cancel()
			err := aw.ca.client.Register(ctx, user, pass)

			fyne.Do(func() {
				registerButton.Enable()
				if err != nil {
					aw.ca.logger.Warn("registration failed", "username", user, "error", err)
					dialog.ShowInformation("Register", api.UserMessage("Registration failed", err, "Unknown error"), aw.window)
					return
				}
				aw.ca.logger.Info("registered", "username", user)
				d := dialog.NewInformation("Register", "Registration successful. Please log in.", aw.window)
				d.SetOnClosed(aw.showLogin)
				d.Show()
			})
		}()
	})
	registerButton.Importance = widget.HighImportance

	back := widget.NewButton("Back to login", aw.showLogin)
	back.Importance = widget.LowImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Create your account", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		username,
		password,
		registerButton,
		back,
	)
	aw.window.SetContent(container.NewPadded(form))
	aw.window.Canvas().Focus(username)
}
