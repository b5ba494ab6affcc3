package views

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/form"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// FieldModel renders one form input.
type FieldModel struct {
	ID    string
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

// LoginModel is what the login page renders.
type LoginModel struct {
	Email          FieldModel
	Password       FieldModel
	ToggleLabel    string
	Visibility     string
	Touched        []string
	Submitted      bool
	Valid          bool
	Acknowledgment string
	SubmitError    string
}

// LoginView is the login form: validation state plus the password toggle.
type LoginView struct {
	submitter Submitter
	logger    *zap.Logger

	mu         sync.Mutex
	form       *form.State
	password   form.PasswordInput
	ack        string
	submitErr  string
	submission *models.LoginSubmission
}

func newLoginView(submitter Submitter) *LoginView {
	v := &LoginView{submitter: submitter, logger: util.GetLogger()}
	v.resetLocked()
	return v
}

func (v *LoginView) resetLocked() {
	v.form = form.NewState(form.LoginSchema())
	v.password = form.PasswordInput{ID: "password", Label: "Password"}
	v.ack = ""
	v.submitErr = ""
	v.submission = nil
}

// Reset returns the form to its initial state.
func (v *LoginView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetLocked()
}

// Restore rebuilds the form from a previously rendered page.
func (v *LoginView) Restore(values form.Values, touched []string, submitted bool, visibility form.Visibility) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.form = form.Restore(form.LoginSchema(), values, touched, submitted)
	v.password.Value = v.form.Value("password")
	v.password.Visibility = visibility
}

// Change updates a field value without validating.
func (v *LoginView) Change(field, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.form.Change(field, value)
	if field == "password" {
		v.password.Value = value
	}
}

// Blur marks field touched and revalidates.
func (v *LoginView) Blur(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Blur(field)
}

// VisibleError returns the error shown under field.
func (v *LoginView) VisibleError(field string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.VisibleError(field)
}

// TogglePassword flips the password field between masked and plain.
func (v *LoginView) TogglePassword() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.password.Toggle()
}

// Submit validates every field and, when all pass, runs the submitter and
// sets the acknowledgment. Validation failures stay in the form; only a
// failing submitter returns an error.
func (v *LoginView) Submit(ctx context.Context) (form.Outcome, error) {
	v.mu.Lock()
	v.ack, v.submitErr = "", ""
	outcome := v.form.Submit()
	email := v.form.Value("email")
	v.mu.Unlock()

	if outcome == form.Rejected {
		util.LoginSubmissionsTotal.WithLabelValues("rejected").Inc()
		return outcome, nil
	}

	var submission *models.LoginSubmission
	var err error
	if v.submitter != nil {
		submission, err = v.submitter.SubmitLogin(ctx, email)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.submitErr = "Something went wrong, please try again."
		v.logger.Error("Login submission failed", zap.Error(err))
		return outcome, err
	}
	v.submission = submission
	v.ack = fmt.Sprintf("Logged in as %s", email)
	return outcome, nil
}

// Submission returns the last accepted submission, if any.
func (v *LoginView) Submission() *models.LoginSubmission {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submission
}

// Model renders the current state.
func (v *LoginView) Model() LoginModel {
	v.mu.Lock()
	defer v.mu.Unlock()

	return LoginModel{
		Email: FieldModel{
			ID:    "email",
			Name:  "email",
			Label: "Email Address",
			Type:  "text",
			Value: v.form.Value("email"),
			Error: v.form.VisibleError("email"),
		},
		Password: FieldModel{
			ID:    v.password.ID,
			Name:  "password",
			Label: v.password.Label,
			Type:  v.password.Visibility.InputType(),
			Value: v.password.Value,
			Error: v.form.VisibleError("password"),
		},
		ToggleLabel:    v.password.Visibility.Label(),
		Visibility:     v.password.Visibility.String(),
		Touched:        v.form.TouchedFields(),
		Submitted:      v.form.Submitted(),
		Valid:          v.form.Valid(),
		Acknowledgment: v.ack,
		SubmitError:    v.submitErr,
	}
}
