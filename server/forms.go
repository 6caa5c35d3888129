package server

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Form structs for every POSTed page. Validation runs through struct tags
// so the rules live next to the fields (go-playground/validator).

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type signupForm struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required,max=64"`
	LastName  string `validate:"required,max=64"`
	Role      string `validate:"required,oneof=candidate employer"`
}

type forgotPasswordForm struct {
	Email string `validate:"required,email"`
}

type resetPasswordForm struct {
	Email       string `validate:"required,email"`
	Token       string `validate:"required"`
	NewPassword string `validate:"required,min=8"`
}

// Job wizard steps. Each step validates independently; earlier steps are
// carried through hidden fields so the wizard itself stays stateless.

type jobBasicsForm struct {
	Title          string `validate:"required,min=3,max=120"`
	Location       string `validate:"required,max=120"`
	EmploymentType string `validate:"required,oneof=full-time part-time contract internship"`
}

type jobDetailsForm struct {
	SalaryRange  string `validate:"max=64"`
	Description  string `validate:"required,min=30"`
	Requirements string `validate:"max=4000"`
}

type applyForm struct {
	CoverLetter string `validate:"max=4000"`
}

type messageForm struct {
	Body string `validate:"required,max=2000"`
}

type candidateSettingsForm struct {
	Headline  string `validate:"max=140"`
	Skills    string `validate:"max=500"`
	ResumeURL string `validate:"omitempty,url"`
	About     string `validate:"max=4000"`
}

type companySettingsForm struct {
	Name    string `validate:"required,max=120"`
	Website string `validate:"omitempty,url"`
	About   string `validate:"max=4000"`
}

// validationMessage flattens a validator error into one line a banner can
// show. Field names are the struct's - close enough for form labels.
func validationMessage(err error) string {
	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field())
		case "email":
			return "Please enter a valid email address"
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		case "url":
			return fmt.Sprintf("%s must be a valid URL", fe.Field())
		case "oneof":
			return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	return "Please check the form and try again"
}
