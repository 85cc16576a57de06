package validation

import (
	"strings"
)

// ProfileUpdate is the profile edit form
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
}

var profileMessages = messages{
	"name.required":  "Name is required",
	"name.min":       "Name must be at least 2 characters",
	"name.max":       "Name must be less than 100 characters",
	"email.required": "Email is required",
	"email.email":    "Please enter a valid email address",
	"email.max":      "Email must be less than 255 characters",
}

// Profile trims the name, lower-cases the email and checks both
func Profile(in ProfileUpdate) (ProfileUpdate, error) {
	out := ProfileUpdate{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
	}
	if err := check(out, profileMessages); err != nil {
		return ProfileUpdate{}, err
	}
	return out, nil
}

// PasswordChange is the password change form
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128,nefield=CurrentPassword"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=NewPassword"`
}

var passwordMessages = messages{
	"current_password.required": "Current password is required",
	"new_password.required":     "New password is required",
	"new_password.min":          "New password must be at least 6 characters",
	"new_password.max":          "New password must be less than 128 characters",
	"new_password.nefield":      "New password must be different from current password",
	"confirm_password.eqfield":  "Passwords don't match",
}

// Password checks the change form including both cross-field rules
func Password(in PasswordChange) (PasswordChange, error) {
	if err := check(in, passwordMessages); err != nil {
		return PasswordChange{}, err
	}
	return in, nil
}

// SignUp is the account creation form
type SignUp struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

var signUpMessages = messages{
	"name.required":     "Name is required",
	"name.min":          "Name must be at least 2 characters",
	"name.max":          "Name must be less than 100 characters",
	"email.required":    "Email is required",
	"email.email":       "Please enter a valid email address",
	"email.max":         "Email must be less than 255 characters",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"password.max":      "Password must be less than 128 characters",
}

func SignUpForm(in SignUp) (SignUp, error) {
	out := SignUp{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
	}
	if err := check(out, signUpMessages); err != nil {
		return SignUp{}, err
	}
	return out, nil
}

// ResumeText checks the plain-text resume form
func ResumeText(text string) (string, error) {
	var c collector
	text = strings.TrimSpace(text)
	if text == "" {
		c.add("resume", "Please enter your resume text")
	}
	return text, c.err()
}
