// Package validation provides request payload validation for the A-EMS
// HTTP handlers.
//
// It wraps go-playground/validator struct tag validation and converts
// failures into a 422 AppError with per-field details.
//
// # Usage
//
//	type RegisterRequest struct {
//	    Email    string `json:"email" validate:"required,email"`
//	    Password string `json:"password" validate:"required,min=8"`
//	}
//	if err := validation.Validate(req); err != nil { ... }
package validation
