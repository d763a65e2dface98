package notify

import (
	"errors"

	"github.com/BearBump/ShipTrack/internal/services/session"
)

func RegisterFailed(err error) Toast {
	return Toast{Title: "Registration Failed", Description: describe(err), Variant: VariantDestructive}
}

func RegisterSucceeded(username string) Toast {
	return Toast{Title: "Registration Successful", Description: "Welcome " + username + "!", Variant: VariantDefault}
}

func LoginFailed(err error) Toast {
	return Toast{Title: "Login Failed", Description: describe(err), Variant: VariantDestructive}
}

func LoginSucceeded(username string) Toast {
	return Toast{Title: "Login Successful", Description: "Welcome back " + username + "!", Variant: VariantDefault}
}

func LoggedOut() Toast {
	return Toast{Title: "Logged Out", Description: "You have been successfully logged out", Variant: VariantDefault}
}

// describe maps session errors to the text shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrMissingField):
		return "Username and password are required"
	case errors.Is(err, session.ErrDuplicateUsername):
		return "Username already exists"
	case errors.Is(err, session.ErrInvalidCredentials):
		return "Invalid username or password"
	}
	return "Something went wrong, please try again"
}
